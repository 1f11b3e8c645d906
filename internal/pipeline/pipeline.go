package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Devon-White/webclip/internal/config"
	"github.com/Devon-White/webclip/internal/converter"
	"github.com/Devon-White/webclip/internal/extractor"
	"github.com/Devon-White/webclip/internal/fetcher"
	"github.com/Devon-White/webclip/internal/writer"
)

// ErrNoInput is returned when no URL argument was given and stdin is an
// interactive terminal.
var ErrNoInput = errors.New("no URL provided and no data from stdin")

// maxLineBytes caps a single stdin line.
const maxLineBytes = 1 << 20

// Input describes where URLs come from when no argument is given.
type Input struct {
	Reader     io.Reader
	IsTerminal bool
}

type runner struct {
	cfg     *config.Config
	fetcher *fetcher.Fetcher
	stdout  io.Writer
	stderr  io.Writer

	processed int
	failed    int
}

// Run processes the URL from cfg, or every non-empty line of in when cfg has
// no URL. URLs are handled one at a time, in order. A failing URL is
// reported on stderr and never stops the batch; only missing input, a stdin
// read error, or cancellation of ctx is returned.
func Run(ctx context.Context, cfg *config.Config, in Input, stdout, stderr io.Writer) error {
	r := &runner{
		cfg:     cfg,
		fetcher: fetcher.New(cfg.UserAgent, cfg.Timeout),
		stdout:  stdout,
		stderr:  stderr,
	}

	err := r.run(ctx, in)

	log.Debug().Int("processed", r.processed).Int("failed", r.failed).Msg("done")
	return err
}

func (r *runner) run(ctx context.Context, in Input) error {
	if r.cfg.URL != "" {
		r.processURL(ctx, r.cfg.URL)
		return ctx.Err()
	}

	if in.IsTerminal || in.Reader == nil {
		fmt.Fprintln(r.stderr, "No URL provided and no data from stdin. Use -h for help.")
		return ErrNoInput
	}

	scanner := bufio.NewScanner(in.Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		pageURL := strings.TrimSpace(scanner.Text())
		if pageURL == "" {
			continue
		}
		r.processURL(ctx, pageURL)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return ctx.Err()
}

// processURL runs one URL through fetch, extract, convert and write,
// reporting any failure on stderr.
func (r *runner) processURL(ctx context.Context, pageURL string) {
	start := time.Now()
	r.processed++

	fmt.Fprintf(r.stderr, "Fetching and converting %s to %s...\n", pageURL, r.cfg.Format)

	content, err := r.convertPage(ctx, pageURL)
	if err == nil {
		err = writer.WriteEntry(r.stdout, writer.Entry{URL: pageURL, Content: content}, r.cfg.IncludeURL)
	}
	if err != nil {
		r.failed++
		fmt.Fprintf(r.stderr, "An error occurred while processing %s: %v\n", pageURL, err)
		log.Debug().Err(err).Str("url", pageURL).Dur("elapsed", time.Since(start)).Msg("page failed")
		return
	}

	log.Debug().Str("url", pageURL).Int("chars", len(content)).Dur("elapsed", time.Since(start)).Msg("page converted")
}

// convertPage fetches a single page and converts its main content.
func (r *runner) convertPage(ctx context.Context, pageURL string) (string, error) {
	body, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}

	html, err := extractor.Extract(body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extraction: %w", err)
	}

	content, err := converter.Convert(html, r.cfg.Format, r.cfg.Text, pageURL)
	if err != nil {
		return "", fmt.Errorf("conversion: %w", err)
	}
	return content, nil
}
