package extractor

import (
	"bytes"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"
)

// noiseSelectors are boilerplate elements removed from the page before
// readability scoring runs.
var noiseSelectors = []string{
	"nav",
	"body > header",
	"body > footer",
	"aside",
	"script",
	"style",
	"noscript",
	"iframe",
	"form",
	"[role=\"navigation\"]",
	"[role=\"banner\"]",
	"[role=\"contentinfo\"]",
	".nav",
	".navbar",
	".menu",
	".sidebar",
	".breadcrumb",
	".breadcrumbs",
	".pagination",
	".ads",
	".advertisement",
	".cookie-banner",
	".share",
	".social",
}

// heuristicSelectors is the ordered list of CSS selectors tried when
// readability finds nothing. The first match with meaningful text wins.
var heuristicSelectors = []string{
	"main",
	"article",
	"[role=\"main\"]",
	".content",
	".main-content",
	"#content",
	".post",
	".entry-content",
	".markdown-body",
}

// Extract parses the HTML body, removes boilerplate, and returns the HTML
// fragment holding the page's main content. Malformed markup is tolerated;
// an error is only returned when the fragment cannot be serialized.
func Extract(htmlBody []byte, sourceURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return "", err
	}

	doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	heading := strings.TrimSpace(doc.Find("h1").First().Text())

	if content, ok := readable(doc, sourceURL, heading); ok {
		log.Debug().Str("url", sourceURL).Str("method", "readability").Msg("extracted")
		return content, nil
	}

	log.Debug().Str("url", sourceURL).Str("method", "selector").Msg("extracted")
	return findMainContent(doc).Html()
}

// readable runs the readability algorithm over the cleaned document. It
// reports false when the algorithm fails or finds no text. heading is the
// page's first h1, used in place of <title> when the title header is restored.
func readable(doc *goquery.Document, sourceURL string, heading string) (string, bool) {
	cleaned, err := doc.Html()
	if err != nil {
		return "", false
	}

	pageURL, err := url.Parse(sourceURL)
	if err != nil || pageURL.Host == "" {
		return "", false
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(cleaned), pageURL)
	if err != nil {
		log.Debug().Err(err).Str("url", sourceURL).Msg("readability failed")
		return "", false
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return "", false
	}

	// Readability drops the header that duplicates the page title; restore
	// it when no heading survived.
	if hasHeading(article.Content) {
		return article.Content, true
	}
	title := heading
	if title == "" {
		title = strings.TrimSpace(article.Title)
	}
	if title != "" && !strings.Contains(article.TextContent, title) {
		return "<h1>" + html.EscapeString(title) + "</h1>\n" + article.Content, true
	}
	return article.Content, true
}

// hasHeading reports whether fragment holds a top-level heading.
func hasHeading(fragment string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return false
	}
	return doc.Find("h1, h2").Length() > 0
}

// findMainContent tries heuristic selectors in order and returns the first
// match with substantial text content (>50 chars). Falls back to body.
func findMainContent(doc *goquery.Document) *goquery.Selection {
	for _, sel := range heuristicSelectors {
		s := doc.Find(sel).First()
		if s.Length() > 0 && len(strings.TrimSpace(s.Text())) > 50 {
			return s
		}
	}
	return doc.Find("body")
}
