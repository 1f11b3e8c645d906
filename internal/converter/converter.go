package converter

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"

	"github.com/Devon-White/webclip/internal/config"
)

// removeTags are HTML tags that should be stripped entirely during conversion.
var removeTags = []string{
	"script", "style", "noscript", "iframe",
}

// emphasisSelector matches the inline elements rendered as bold, italic or
// strikethrough markers.
const emphasisSelector = "em, i, strong, b, del, s, strike"

var multiBlankLines = regexp.MustCompile(`\n{3,}`)

// Convert renders an extracted HTML fragment in the requested format. Text
// options only apply to FormatText.
func Convert(contentHTML string, format config.Format, opts config.TextOptions, sourceURL string) (string, error) {
	if format == config.FormatMarkdown {
		return ToMarkdown(contentHTML, sourceURL)
	}
	return ToText(contentHTML, opts, sourceURL)
}

// ToMarkdown converts an HTML fragment to markdown, keeping links, images,
// emphasis and tables. Lines are never wrapped.
func ToMarkdown(contentHTML string, sourceURL string) (string, error) {
	return render(contentHTML, sourceURL, true)
}

// ToText converts an HTML fragment to plain text, dropping every element
// class selected in opts, and normalizes the result with NormalizeText.
func ToText(contentHTML string, opts config.TextOptions, sourceURL string) (string, error) {
	stripped, err := strip(contentHTML, opts)
	if err != nil {
		return "", fmt.Errorf("stripping elements: %w", err)
	}

	text, err := render(stripped, sourceURL, !opts.NoTables)
	if err != nil {
		return "", err
	}
	return NormalizeText(text), nil
}

// NormalizeText collapses runs of three or more newlines to exactly two and
// trims surrounding whitespace.
func NormalizeText(s string) string {
	s = multiBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func render(contentHTML string, sourceURL string, tables bool) (string, error) {
	plugins := []converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	}
	if tables {
		plugins = append(plugins, table.NewTablePlugin())
	}
	conv := converter.NewConverter(converter.WithPlugins(plugins...))

	for _, tag := range removeTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}

	md, err := conv.ConvertString(contentHTML, converter.WithDomain(domainFromURL(sourceURL)))
	if err != nil {
		return "", fmt.Errorf("html-to-markdown conversion: %w", err)
	}
	return md, nil
}

// strip removes the element classes selected in opts from an HTML fragment.
func strip(contentHTML string, opts config.TextOptions) (string, error) {
	if opts == (config.TextOptions{}) {
		return contentHTML, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return "", err
	}

	if opts.NoTables {
		flattenTables(doc)
	}
	if opts.NoImages {
		doc.Find("img, picture").Remove()
	}
	if opts.NoLinks {
		unwrap(doc.Find("a"))
	}
	if opts.NoEmphasis {
		unwrap(doc.Find(emphasisSelector))
	}

	return doc.Find("body").Html()
}

// unwrap replaces each element in sel with its children.
func unwrap(sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithSelection(s.Contents())
	})
}

// flattenTables replaces every table with one paragraph per row, the cell
// contents separated by spaces. The last table in document order never
// contains another, so nested tables are flattened inside out.
func flattenTables(doc *goquery.Document) {
	for {
		t := doc.Find("table").Last()
		if t.Length() == 0 {
			return
		}

		var sb strings.Builder
		if caption := strings.TrimSpace(t.Find("caption").Text()); caption != "" {
			sb.WriteString("<p>" + html.EscapeString(caption) + "</p>")
		}
		t.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
				inner, err := cell.Html()
				if err != nil {
					return
				}
				if inner = strings.TrimSpace(inner); inner != "" {
					cells = append(cells, inner)
				}
			})
			if len(cells) > 0 {
				sb.WriteString("<p>" + strings.Join(cells, " ") + "</p>")
			}
		})
		t.ReplaceWithHtml(sb.String())
	}
}

func domainFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
