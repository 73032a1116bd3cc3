package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/morphd/internal/detect"
	"github.com/dkoosis/morphd/internal/lexstore"
	"github.com/dkoosis/morphd/pkg/adapter"
	"github.com/dkoosis/morphd/pkg/lexicon"
	"github.com/dkoosis/morphd/pkg/linesource"
	"github.com/dkoosis/morphd/pkg/render"
	"github.com/dkoosis/morphd/pkg/stream"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Analyze words from stdin (the default command)",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	lex, err := a.loadLexicon(a.cfg.Lexicon)
	if err != nil {
		return fatal(err)
	}
	analyzer, err := lexicon.New(lex)
	if err != nil {
		return fatal(fmt.Errorf("building analyzer: %w", err))
	}
	source := a.cfg.Lexicon
	if source == "" {
		source = "built-in"
	}
	a.log.Info("lexicon loaded", "source", source, "roots", len(lex.Roots), "suffixes", len(lex.Suffixes))
	ad := adapter.New(analyzer,
		adapter.WithMaxWordLength(a.cfg.MaxWordLength),
		adapter.WithLogger(a.log))

	src, closeSrc, err := a.openSource()
	if err != nil {
		return fatal(err)
	}
	defer closeSrc()

	sink := stream.NewSink(a.stdout, a.encoder())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	// After the first interrupt, a second one gets the default behaviour.
	stopRestore := context.AfterFunc(ctx, stop)
	defer stopRestore()
	// Close stdin on cancel to unblock a pending read.
	if c, ok := a.stdin.(io.Closer); ok {
		stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stopClose()
	}

	stats, err := stream.Run(ctx, src, ad.Analyze, sink, stream.WithLogger(a.log))
	switch {
	case errors.Is(err, context.Canceled), ctx.Err() != nil:
		a.log.Info("interrupted", stats.LogAttrs()...)
		return nil
	case err != nil:
		return fatal(err)
	}
	a.log.Info("done", stats.LogAttrs()...)
	return nil
}

// loadLexicon returns the built-in lexicon for an empty path, otherwise
// the YAML or SQLite lexicon at path.
func (a *app) loadLexicon(path string) (*lexicon.Lexicon, error) {
	if path == "" {
		return lexicon.Default(), nil
	}
	format, err := detect.File(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	a.log.Debug("loading lexicon", "path", path, "format", format)
	switch format {
	case detect.YAML:
		return lexicon.LoadFile(path)
	case detect.SQLite:
		return lexstore.LoadFile(path, lexstore.WithLogger(a.log))
	default:
		return nil, fmt.Errorf("lexicon %s: unrecognized format", path)
	}
}

func (a *app) openSource() (linesource.Source, func(), error) {
	if !a.cfg.Interactive {
		return linesource.NewScanner(a.stdin), func() {}, nil
	}
	if !isTerminal(a.stdin) {
		a.log.Warn("interactive mode without a terminal on stdin")
	}
	in, ok := a.stdin.(io.ReadCloser)
	if !ok {
		in = io.NopCloser(a.stdin)
	}
	src, err := linesource.NewInteractive(linesource.InteractiveConfig{
		HistoryFile: a.cfg.HistoryFile,
		Stdin:       in,
		Stdout:      a.stderr,
		Logger:      a.log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("starting line editor: %w", err)
	}
	return src, func() { _ = src.Close() }, nil
}

func (a *app) encoder() render.Encoder {
	if a.cfg.Format != "text" {
		return render.NewJSON()
	}
	r := lipgloss.NewRenderer(a.stdout)
	r.SetColorProfile(colorProfile(a.cfg.Color, a.stdout))
	return render.NewTerminal(render.ThemeByName(a.cfg.Theme, r), render.DefaultWordWidth)
}

// colorProfile resolves the color setting for w. auto enables color only
// when w is a terminal.
func colorProfile(setting string, w io.Writer) termenv.Profile {
	switch setting {
	case "never":
		return termenv.Ascii
	case "always":
		return termenv.ANSI256
	}
	if !isTerminal(w) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// isTerminal reports whether v is a terminal file.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
