package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dkoosis/morphd/internal/detect"
	"github.com/dkoosis/morphd/internal/lexstore"
)

func (a *app) newLexiconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Manage lexicons",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "import SRC DST",
			Short: "Import a lexicon into a SQLite store",
			Long: `Import reads the lexicon at SRC (YAML or SQLite), validates it and
replaces the contents of the SQLite store at DST, creating it if needed.`,
			Args: cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				return fatal(a.importLexicon(args[0], args[1]))
			},
		},
		&cobra.Command{
			Use:   "stats [SRC]",
			Short: "Show morpheme counts for a lexicon",
			Long: `Stats prints root and suffix counts per type for SRC, or for the
configured lexicon when SRC is omitted.`,
			Args: cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				src := a.cfg.Lexicon
				if len(args) == 1 {
					src = args[0]
				}
				return fatal(a.lexiconStats(src))
			},
		},
	)
	return cmd
}

func (a *app) importLexicon(src, dst string) (err error) {
	lex, err := a.loadLexicon(src)
	if err != nil {
		return err
	}
	store, err := lexstore.Open(dst, lexstore.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", dst, cerr)
		}
	}()
	if err := store.Migrate(); err != nil {
		return err
	}
	source := src
	if source == "" {
		source = "built-in"
	}
	if err := store.Import(lex, source); err != nil {
		return err
	}
	v, err := store.Version()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "imported %d roots and %d suffixes into %s (schema v%d)\n",
		len(lex.Roots), len(lex.Suffixes), dst, v)
	return err
}

func (a *app) lexiconStats(src string) error {
	lex, err := a.loadLexicon(src)
	if err != nil {
		return err
	}
	stats := lex.Stats()

	name := src
	if name == "" {
		name = "built-in"
	}
	if _, err := fmt.Fprintf(a.stdout, "Lexicon: %s\n", name); err != nil {
		return err
	}
	if err := a.printImportMeta(src); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(a.stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Entries"})
	for _, typ := range stats.TypeNames() {
		t.AppendRow(table.Row{typ, stats.Types[typ]})
	}
	t.AppendFooter(table.Row{"Roots", stats.Roots})
	t.AppendFooter(table.Row{"Suffixes", stats.Suffixes})
	t.Render()
	return nil
}

// printImportMeta shows where a SQLite lexicon was imported from.
func (a *app) printImportMeta(src string) error {
	if src == "" {
		return nil
	}
	if format, err := detect.File(src); err != nil || format != detect.SQLite {
		return nil
	}
	store, err := lexstore.Open(src, lexstore.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer store.Close()
	meta, err := store.Meta()
	if err != nil {
		return err
	}
	if meta.Source == "" {
		return nil
	}
	_, err = fmt.Fprintf(a.stdout, "Imported from: %s at %s\n", meta.Source, meta.ImportedAt.Format(time.RFC3339))
	return err
}
