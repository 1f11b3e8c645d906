package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultUserAgent is sent with every request. Many sites serve stripped or
// blocked pages to non-browser agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 15 * time.Second

// Format selects the output rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// TextOptions control element suppression in text output. They are ignored
// for markdown output.
type TextOptions struct {
	NoLinks    bool
	NoImages   bool
	NoEmphasis bool
	NoTables   bool
}

// Config holds all CLI options for a webclip run.
type Config struct {
	URL        string // empty = read URLs from stdin
	Format     Format
	IncludeURL bool
	Text       TextOptions
	Verbose    bool
	UserAgent  string
	Timeout    time.Duration
}

// Flag keys shared by the command definition and FromViper.
const (
	KeyMarkdown   = "markdown"
	KeyIncludeURL = "include-url"
	KeyNoLinks    = "no-links"
	KeyNoImages   = "no-images"
	KeyNoEmphasis = "no-emphasis"
	KeyNoTables   = "no-tables"
	KeyVerbose    = "verbose"
)

// FromViper builds a Config from flag values bound into v and the
// positional arguments.
func FromViper(v *viper.Viper, args []string) Config {
	cfg := Config{
		Format:     FormatText,
		IncludeURL: v.GetBool(KeyIncludeURL),
		Text: TextOptions{
			NoLinks:    v.GetBool(KeyNoLinks),
			NoImages:   v.GetBool(KeyNoImages),
			NoEmphasis: v.GetBool(KeyNoEmphasis),
			NoTables:   v.GetBool(KeyNoTables),
		},
		Verbose:   v.GetBool(KeyVerbose),
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
	if v.GetBool(KeyMarkdown) {
		cfg.Format = FormatMarkdown
	}
	if len(args) > 0 {
		cfg.URL = strings.TrimSpace(args[0])
	}
	return cfg
}
