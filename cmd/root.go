package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Devon-White/webclip/internal/config"
	"github.com/Devon-White/webclip/internal/pipeline"
)

// version is set at build time via ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webclip [url]",
		Short: "Fetch the main content of a webpage as Markdown or plain text",
		Long: `webclip fetches a webpage, extracts its main readable content, and prints it
as plain text (default) or Markdown.

If no URL is given, URLs are read from stdin, one per line. Each result is
followed by a "---" separator line. Progress and errors go to stderr; a
failing URL is reported and the remaining URLs are still processed.`,
		Example: `  webclip https://example.com -i
  cat urls.txt | webclip -m`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := rootCmd.Flags()
	flags.BoolP(config.KeyMarkdown, "m", false, "output in Markdown format (default is plain text)")
	flags.BoolP(config.KeyIncludeURL, "i", false, "append the source URL after the output")
	flags.Bool(config.KeyNoLinks, false, "remove links from plain text output")
	flags.Bool(config.KeyNoImages, false, "remove image references from plain text output")
	flags.Bool(config.KeyNoEmphasis, false, "remove bold/italic markers from plain text output")
	flags.Bool(config.KeyNoTables, false, "remove table formatting from plain text output")
	flags.BoolP(config.KeyVerbose, "v", false, "debug logging on stderr")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	cfg := config.FromViper(v, args)

	setupLogging(cmd.ErrOrStderr(), cfg.Verbose)
	log.Debug().
		Str("format", string(cfg.Format)).
		Bool("include_url", cfg.IncludeURL).
		Interface("text_options", cfg.Text).
		Msg("starting")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	in := pipeline.Input{
		Reader:     cmd.InOrStdin(),
		IsTerminal: isTerminal(cmd.InOrStdin()),
	}
	return pipeline.Run(ctx, &cfg, in, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// setupLogging routes zerolog to w. Only warnings are shown unless verbose.
func setupLogging(w io.Writer, verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Execute runs the root command. The no-input diagnostic is printed by the
// pipeline itself; other errors are printed here.
func Execute() error {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, pipeline.ErrNoInput) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}
