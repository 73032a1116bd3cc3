package morph

import "errors"

// ErrNoMorpheme is returned when an attachment does not reference a morpheme.
var ErrNoMorpheme = errors.New("attachment has no morpheme")

// Analyzer is the capability an analysis engine exposes. Implementations are
// constructed once and must tolerate repeated read-only calls.
type Analyzer interface {
	// Analyze returns the candidate parses of word in the engine's preferred
	// order. Zero solutions with a nil error means the word is unknown.
	Analyze(word string) ([]Solution, error)
}

// Solution is one complete decomposition of a word.
type Solution interface {
	// Stem returns the surface form of the word's root.
	Stem() string
	// Attachments returns the morpheme attachments in root-to-suffix order.
	Attachments() []Attachment
}

// Attachment is a realized occurrence of a morpheme within a word.
type Attachment interface {
	Surface() string
	Morpheme() Morpheme
}

// Morpheme is a lexicon entry: a root or an affix.
type Morpheme interface {
	LexicalForm() string
	ID() string
	Type() string
	Labels() []string
}

// AnalyzerFunc adapts a plain function to the Analyzer interface.
type AnalyzerFunc func(word string) ([]Solution, error)

// Analyze calls f(word).
func (f AnalyzerFunc) Analyze(word string) ([]Solution, error) {
	return f(word)
}
