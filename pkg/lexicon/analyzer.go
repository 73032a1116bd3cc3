package lexicon

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/dkoosis/morphd/pkg/morph"
)

// maxSuffixes bounds the suffix chain explored per solution.
const maxSuffixes = 12

// ErrUnsupportedChar is returned for words containing non-letter runes.
var ErrUnsupportedChar = errors.New("unsupported character")

// Analyzer implements morph.Analyzer over a Lexicon. It is safe for
// concurrent use; the lexicon is not modified after New.
type Analyzer struct {
	roots    []*morpheme
	suffixes []*morpheme
}

// New builds an Analyzer from lex. lex is validated and copied.
func New(lex *Lexicon) (*Analyzer, error) {
	if lex == nil {
		return nil, fmt.Errorf("%w: nil lexicon", ErrInvalidLexicon)
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{
		roots:    make([]*morpheme, 0, len(lex.Roots)),
		suffixes: make([]*morpheme, 0, len(lex.Suffixes)),
	}
	for _, e := range lex.Roots {
		a.roots = append(a.roots, newMorpheme(e))
	}
	for _, e := range lex.Suffixes {
		a.suffixes = append(a.suffixes, newMorpheme(e))
	}
	return a, nil
}

// Normalize composes word to NFC and lower-cases it with Turkish rules
// (I → ı, İ → i).
func Normalize(word string) string {
	return cases.Lower(language.Turkish).String(norm.NFC.String(word))
}

// Analyze implements morph.Analyzer. Unknown words yield no solutions and
// no error.
func (a *Analyzer) Analyze(word string) ([]morph.Solution, error) {
	w := Normalize(word)
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return nil, fmt.Errorf("%w %q", ErrUnsupportedChar, r)
		}
	}

	var out []morph.Solution
	for _, root := range a.roots {
		for i, surface := range root.surfaces() {
			rest, ok := strings.CutPrefix(w, surface)
			if !ok {
				continue
			}
			softened := i > 0
			chain := []*attachment{{surface: surface, m: root}}
			if rest == "" {
				if !softened {
					out = append(out, newSolution(chain))
				}
				continue
			}
			a.extend(rest, surface, root, softened, chain, &out)
		}
	}
	return out, nil
}

// extend appends every suffix chain that consumes rest exactly.
func (a *Analyzer) extend(rest, before string, prev *morpheme, needVowel bool, chain []*attachment, out *[]morph.Solution) {
	if len(chain) > maxSuffixes {
		return
	}
	for _, suf := range a.suffixes {
		if !suf.follows(prev) {
			continue
		}
		surface := realize(suf.entry.Lexical, before)
		if surface == "" {
			continue
		}
		if needVowel && !isVowel(firstRune(surface)) {
			continue
		}
		remaining, ok := strings.CutPrefix(rest, surface)
		if !ok {
			continue
		}
		next := append(slices.Clip(chain), &attachment{surface: surface, m: suf})
		if remaining == "" {
			*out = append(*out, newSolution(next))
			continue
		}
		a.extend(remaining, before+surface, suf, false, next, out)
	}
}

type morpheme struct {
	entry  Entry
	labels []string
}

func newMorpheme(e Entry) *morpheme {
	e.Labels = slices.Clone(e.Labels)
	e.Alternates = slices.Clone(e.Alternates)
	e.Follows = slices.Clone(e.Follows)
	return &morpheme{entry: e, labels: e.Labels}
}

func (m *morpheme) LexicalForm() string { return m.entry.Lexical }
func (m *morpheme) ID() string          { return m.entry.ID }
func (m *morpheme) Type() string        { return m.entry.Type }

// Labels returns a copy so callers cannot mutate the lexicon.
func (m *morpheme) Labels() []string { return slices.Clone(m.labels) }

// surfaces returns the lexical form followed by any alternates.
func (m *morpheme) surfaces() []string {
	return append([]string{m.entry.Lexical}, m.entry.Alternates...)
}

func (m *morpheme) follows(prev *morpheme) bool {
	return slices.Contains(m.entry.Follows, prev.entry.ID) || slices.Contains(m.entry.Follows, prev.entry.Type)
}

type attachment struct {
	surface string
	m       *morpheme
}

func (a *attachment) Surface() string          { return a.surface }
func (a *attachment) Morpheme() morph.Morpheme { return a.m }

type solution struct {
	attachments []*attachment
}

func newSolution(chain []*attachment) *solution {
	return &solution{attachments: slices.Clone(chain)}
}

// Stem is the surface of the root attachment.
func (s *solution) Stem() string { return s.attachments[0].surface }

func (s *solution) Attachments() []morph.Attachment {
	out := make([]morph.Attachment, len(s.attachments))
	for i, a := range s.attachments {
		out[i] = a
	}
	return out
}
