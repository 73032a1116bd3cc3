// Package morphtest provides in-memory analyzer fakes for tests.
package morphtest

import (
	"errors"

	"github.com/dkoosis/morphd/pkg/morph"
)

// Morpheme is a static morph.Morpheme.
type Morpheme struct {
	Lexical string
	MID     string
	MType   string
	MLabels []string
}

func (m *Morpheme) LexicalForm() string { return m.Lexical }
func (m *Morpheme) ID() string          { return m.MID }
func (m *Morpheme) Type() string        { return m.MType }
func (m *Morpheme) Labels() []string    { return m.MLabels }

// Attachment is a static morph.Attachment. A nil M yields a nil Morpheme.
type Attachment struct {
	Surf string
	M    *Morpheme
}

func (a *Attachment) Surface() string { return a.Surf }

func (a *Attachment) Morpheme() morph.Morpheme {
	if a.M == nil {
		return nil
	}
	return a.M
}

// Solution is a static morph.Solution.
type Solution struct {
	StemSurface string
	Parts       []*Attachment
}

func (s *Solution) Stem() string { return s.StemSurface }

func (s *Solution) Attachments() []morph.Attachment {
	out := make([]morph.Attachment, len(s.Parts))
	for i, p := range s.Parts {
		out[i] = p
	}
	return out
}

// Root returns a single-morpheme solution whose surface equals its lexical form.
func Root(word, id, typ string, labels ...string) *Solution {
	return &Solution{
		StemSurface: word,
		Parts: []*Attachment{{
			Surf: word,
			M:    &Morpheme{Lexical: word, MID: id, MType: typ, MLabels: labels},
		}},
	}
}

// Analyzer answers from a fixed table and records every word it is asked about.
// Words listed in Errors fail with the given message; words in neither map
// have zero solutions.
type Analyzer struct {
	Solutions map[string][]*Solution
	Errors    map[string]string
	Calls     []string
}

// NewAnalyzer returns an empty table analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Solutions: make(map[string][]*Solution),
		Errors:    make(map[string]string),
	}
}

// Analyze implements morph.Analyzer.
func (a *Analyzer) Analyze(word string) ([]morph.Solution, error) {
	a.Calls = append(a.Calls, word)
	if msg, ok := a.Errors[word]; ok {
		return nil, errors.New(msg)
	}
	sols := a.Solutions[word]
	out := make([]morph.Solution, len(sols))
	for i, s := range sols {
		out[i] = s
	}
	return out, nil
}
