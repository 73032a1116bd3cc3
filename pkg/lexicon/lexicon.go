// Package lexicon is a small table-driven Turkish morphological analyzer.
//
// A Lexicon lists roots and suffixes. Suffix lexical forms use archiphonemes
// that are realized by vowel harmony and consonant assimilation:
//
//	A    a after a back vowel, e after a front vowel
//	I    ı, i, u or ü by backness and rounding of the preceding vowel
//	D    t after a voiceless consonant, d otherwise
//	C    ç after a voiceless consonant, c otherwise
//	(x)  a leading buffer letter, kept only when it avoids a vowel or
//	     consonant cluster at the boundary: (y)I, (n)In, (I)m
//
// Roots may list alternate surfaces (kitap → kitab) that are only valid
// before a vowel-initial suffix.
package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultLexicon []byte

// ErrInvalidLexicon wraps all lexicon validation failures.
var ErrInvalidLexicon = errors.New("invalid lexicon")

// Entry is one morpheme in the lexicon.
type Entry struct {
	ID         string   `yaml:"id" json:"id"`
	Lexical    string   `yaml:"lexical" json:"lexical"`
	Type       string   `yaml:"type" json:"type"`
	Labels     []string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Alternates []string `yaml:"alternates,omitempty" json:"alternates,omitempty"` // roots only
	Follows    []string `yaml:"follows,omitempty" json:"follows,omitempty"`       // suffixes only: root types or suffix IDs
}

// Lexicon is the full set of roots and suffixes. Entry order is significant:
// it decides the order in which solutions are returned.
type Lexicon struct {
	Roots    []Entry `yaml:"roots"`
	Suffixes []Entry `yaml:"suffixes"`
}

// Parse decodes a YAML lexicon and validates it.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLexicon, err)
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

// LoadFile reads and parses a YAML lexicon from path.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	lex, err := Parse(defaultLexicon)
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded default is invalid: %v", err))
	}
	return lex
}

// Validate checks IDs are unique, forms are present and every suffix
// follows something that exists.
func (l *Lexicon) Validate() error {
	if len(l.Roots) == 0 {
		return fmt.Errorf("%w: no roots", ErrInvalidLexicon)
	}
	ids := make(map[string]bool)
	types := make(map[string]bool)
	for _, e := range l.Roots {
		if err := checkEntry(e, ids); err != nil {
			return err
		}
		types[e.Type] = true
	}
	for _, e := range l.Suffixes {
		if err := checkEntry(e, ids); err != nil {
			return err
		}
		if len(e.Follows) == 0 {
			return fmt.Errorf("%w: suffix %q follows nothing", ErrInvalidLexicon, e.ID)
		}
		if len(e.Alternates) > 0 {
			return fmt.Errorf("%w: suffix %q has alternates", ErrInvalidLexicon, e.ID)
		}
	}
	for _, e := range l.Suffixes {
		for _, f := range e.Follows {
			if !types[f] && !ids[f] {
				return fmt.Errorf("%w: suffix %q follows unknown %q", ErrInvalidLexicon, e.ID, f)
			}
		}
	}
	return nil
}

func checkEntry(e Entry, seen map[string]bool) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("%w: entry %q has no id", ErrInvalidLexicon, e.Lexical)
	case e.Lexical == "":
		return fmt.Errorf("%w: entry %q has no lexical form", ErrInvalidLexicon, e.ID)
	case e.Type == "":
		return fmt.Errorf("%w: entry %q has no type", ErrInvalidLexicon, e.ID)
	case seen[e.ID]:
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidLexicon, e.ID)
	}
	seen[e.ID] = true
	return nil
}

// Stats summarises a lexicon.
type Stats struct {
	Roots    int
	Suffixes int
	Types    map[string]int // entries per type, roots and suffixes together
}

// TypeNames returns the keys of Types in sorted order.
func (s Stats) TypeNames() []string {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Stats computes counts for the lexicon.
func (l *Lexicon) Stats() Stats {
	s := Stats{Roots: len(l.Roots), Suffixes: len(l.Suffixes), Types: make(map[string]int)}
	for _, e := range l.Roots {
		s.Types[e.Type]++
	}
	for _, e := range l.Suffixes {
		s.Types[e.Type]++
	}
	return s
}
