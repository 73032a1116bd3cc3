// morphd reads one word per line and writes one morphological analysis
// record per word.
//
// Usage:
//
//	printf 'kitaplar\nevlerde\n' | morphd
//	morphd --format text --interactive
//	morphd lexicon import words.yaml words.db
//	morphd --lexicon words.db lexicon stats
//
// Each non-blank input line yields exactly one JSON record on stdout, in
// input order, flushed before the next line is read. Words that cannot be
// analyzed yield a record with an error field; processing continues.
//
// Exit codes: 0 at end of input, 1 on a fatal error, 2 on a usage error.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkoosis/morphd/internal/config"
	"github.com/dkoosis/morphd/internal/logging"
	"github.com/dkoosis/morphd/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries the streams and the resolved configuration to commands.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	cfg *config.Config
	log *slog.Logger
}

// fatalError marks failures that happen after the command line was
// accepted. Anything else returned from Execute is a usage error.
type fatalError struct{ err error }

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

func fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    slog.New(slog.NewTextHandler(stderr, nil)),
	}
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	var fe *fatalError
	if errors.As(err, &fe) {
		a.log.Error("fatal", "error", fe.err)
		return 1
	}
	fmt.Fprintf(stderr, "morphd: %v\nRun 'morphd --help' for usage.\n", err)
	return 2
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "morphd",
		Short: "Line-oriented morphological analysis",
		Long: `morphd reads words from stdin, one per line, and writes one JSON
record per word with every analysis the analyzer finds.

Blank lines are skipped. A word that fails to analyze still produces a
record, with the failure in its "error" field.`,
		Version:       version.Get().Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return fatal(err)
			}
			log, err := logging.New(a.stderr, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return fatal(err)
			}
			a.cfg, a.log = cfg, log
			if cfg.File != "" {
				log.Debug("config loaded", "file", cfg.File)
			}
			return nil
		},
		RunE: a.runServe,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(a.newServeCmd(), a.newLexiconCmd(), a.newVersionCmd())
	return root
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// No config needed to print the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.stdout, version.Get())
			return fatal(err)
		},
	}
}
