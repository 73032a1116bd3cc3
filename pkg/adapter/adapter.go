package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dkoosis/morphd/pkg/morph"
)

// DefaultMaxWordLength is the largest word, in bytes, passed to the analyzer.
const DefaultMaxWordLength = 4096

var (
	// ErrInvalidUTF8 is reported for words that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 in input")
	// ErrWordTooLong is reported for words over the configured length limit.
	ErrWordTooLong = errors.New("word too long")
	// ErrNilSolution is reported when the analyzer returns a nil solution.
	ErrNilSolution = errors.New("analyzer returned a nil solution")
)

// Adapter converts analyzer output into AnalysisResult records.
type Adapter struct {
	analyzer      morph.Analyzer
	maxWordLength int
	logger        *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMaxWordLength sets the byte limit above which words fail without
// reaching the analyzer. Non-positive values keep the default.
func WithMaxWordLength(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.maxWordLength = n
		}
	}
}

// WithLogger sets the logger used for per-word diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Adapter around analyzer. It panics if analyzer is nil.
func New(analyzer morph.Analyzer, opts ...Option) *Adapter {
	if analyzer == nil {
		panic("adapter: nil analyzer")
	}
	a := &Adapter{
		analyzer:      analyzer,
		maxWordLength: DefaultMaxWordLength,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze produces exactly one result for word. It never panics on behalf of
// the analyzer.
func (a *Adapter) Analyze(word string) morph.AnalysisResult {
	if !utf8.ValidString(word) {
		return morph.Failure(strings.ToValidUTF8(word, "\uFFFD"), ErrInvalidUTF8)
	}
	if len(word) > a.maxWordLength {
		return morph.Failure(word, fmt.Errorf("%w: exceeds %d bytes", ErrWordTooLong, a.maxWordLength))
	}

	analyses, err := a.extract(word)
	if err != nil {
		a.logger.Debug("analysis failed", "word", word, "error", err)
		return morph.Failure(word, err)
	}
	return morph.Success(word, analyses)
}

// extract runs the analyzer and flattens its solutions. A panic anywhere in
// the engine's code is turned into an error and the partial result dropped.
func (a *Adapter) extract(word string) (analyses []morph.DetailedAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			analyses = nil
			err = fmt.Errorf("analyzer panic: %v", r)
		}
	}()

	solutions, err := a.analyzer.Analyze(word)
	if err != nil {
		return nil, err
	}

	analyses = make([]morph.DetailedAnalysis, 0, len(solutions))
	for i, sol := range solutions {
		if sol == nil {
			return nil, fmt.Errorf("solution %d: %w", i, ErrNilSolution)
		}
		d, err := flatten(sol)
		if err != nil {
			return nil, fmt.Errorf("solution %d: %w", i, err)
		}
		analyses = append(analyses, d)
	}
	return analyses, nil
}

func flatten(sol morph.Solution) (morph.DetailedAnalysis, error) {
	attachments := sol.Attachments()
	details := make([]morph.MorphemeDetail, 0, len(attachments))
	for j, att := range attachments {
		if att == nil {
			return morph.DetailedAnalysis{}, fmt.Errorf("attachment %d: %w", j, morph.ErrNoMorpheme)
		}
		m := att.Morpheme()
		if m == nil {
			return morph.DetailedAnalysis{}, fmt.Errorf("attachment %d: %w", j, morph.ErrNoMorpheme)
		}
		details = append(details, morph.NewMorphemeDetail(
			att.Surface(),
			m.LexicalForm(),
			m.ID(),
			m.Type(),
			canonicalLabels(m.Labels()),
		))
	}
	return morph.DetailedAnalysis{Stem: sol.Stem(), Morphemes: details}, nil
}

// canonicalLabels returns a sorted, de-duplicated copy of a label set.
func canonicalLabels(labels []string) []string {
	out := slices.Clone(labels)
	if out == nil {
		return []string{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
