package linesource

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// DefaultPrompt is shown before each word in interactive mode.
const DefaultPrompt = "morphd> "

// InteractiveConfig configures an Interactive source.
type InteractiveConfig struct {
	Prompt      string
	HistoryFile string // empty disables persistent history
	Stdin       io.ReadCloser
	Stdout      io.Writer // where the prompt and echo go; should be stderr
	Logger      *slog.Logger
}

// lineReader is the part of *readline.Instance that Interactive uses.
type lineReader interface {
	Readline() (string, error)
	SaveHistory(content string) error
	Close() error
}

// Interactive reads words from a terminal with line editing and history.
// Ctrl-D ends the stream, as does Ctrl-C on an empty line.
type Interactive struct {
	rl     lineReader
	log    *slog.Logger
	counts Counts
}

// NewInteractive creates an Interactive source. Call Close when done.
func NewInteractive(cfg InteractiveConfig) (*Interactive, error) {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	rlCfg := &readline.Config{
		Prompt:                 prompt,
		HistoryFile:            cfg.HistoryFile,
		Stdin:                  cfg.Stdin,
		Stdout:                 cfg.Stdout,
		Stderr:                 cfg.Stdout,
		DisableAutoSaveHistory: true,
		HistorySearchFold:      true,
	}
	// Raw mode applies to the process terminal, so only use it when that
	// terminal is what we read from.
	if !isTerminal(cfg.Stdin) {
		rlCfg.FuncIsTerminal = func() bool { return false }
		rlCfg.FuncMakeRaw = func() error { return nil }
		rlCfg.FuncExitRaw = func() error { return nil }
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}
	return newInteractive(rl, cfg.Logger), nil
}

func newInteractive(rl lineReader, log *slog.Logger) *Interactive {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Interactive{rl: rl, log: log}
}

// Next implements Source.
func (i *Interactive) Next() (string, error) {
	for {
		line, err := i.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return "", io.EOF
			}
			continue
		case err != nil:
			return "", err
		}
		i.counts.Lines++
		word := strings.TrimSpace(line)
		if word == "" {
			i.counts.Blank++
			continue
		}
		if err := i.rl.SaveHistory(word); err != nil {
			i.log.Debug("saving history", "error", err)
		}
		return word, nil
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Counts returns the line counters so far.
func (i *Interactive) Counts() Counts {
	return i.counts
}

// Close restores the terminal.
func (i *Interactive) Close() error {
	return i.rl.Close()
}
