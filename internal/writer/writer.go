package writer

import (
	"fmt"
	"io"
)

// Separator is printed on its own line after every entry.
const Separator = "---"

// Entry is one converted page ready for output.
type Entry struct {
	URL     string
	Content string
}

// WriteEntry writes the entry content, the source footer when includeURL is
// set, and the separator block.
func WriteEntry(w io.Writer, e Entry, includeURL bool) error {
	if _, err := fmt.Fprintln(w, e.Content); err != nil {
		return fmt.Errorf("writing content for %s: %w", e.URL, err)
	}
	if includeURL {
		if _, err := fmt.Fprintln(w, Footer(e.URL)); err != nil {
			return fmt.Errorf("writing footer for %s: %w", e.URL, err)
		}
	}
	if _, err := fmt.Fprintf(w, "\n%s\n\n", Separator); err != nil {
		return fmt.Errorf("writing separator for %s: %w", e.URL, err)
	}
	return nil
}

// Footer returns the source line appended after the content. It starts with
// a newline so the line is set off from the content.
func Footer(sourceURL string) string {
	return "\nSource: " + sourceURL
}
