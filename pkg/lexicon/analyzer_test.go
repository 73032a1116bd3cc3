package lexicon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/morphd/pkg/morph"
)

type flat struct {
	stem  string
	parts []string // surface:ID
}

func flatten(sols []morph.Solution) []flat {
	out := make([]flat, 0, len(sols))
	for _, s := range sols {
		f := flat{stem: s.Stem()}
		for _, a := range s.Attachments() {
			f.parts = append(f.parts, a.Surface()+":"+a.Morpheme().ID())
		}
		out = append(out, f)
	}
	return out
}

func defaultAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(Default())
	require.NoError(t, err)
	return a
}

func TestAnalyze_DefaultLexicon(t *testing.T) {
	a := defaultAnalyzer(t)
	tests := []struct {
		word string
		want []flat
	}{
		{"ev", []flat{{"ev", []string{"ev:ev"}}}},
		{"kitaplar", []flat{{"kitap", []string{"kitap:kitap", "lar:PLU"}}}},
		{"evlerde", []flat{{"ev", []string{"ev:ev", "ler:PLU", "de:LOC"}}}},
		{"kitabı", []flat{
			{"kitab", []string{"kitab:kitap", "ı:P3SG"}},
			{"kitab", []string{"kitab:kitap", "ı:ACC"}},
		}},
		{"yazı", []flat{
			{"yazı", []string{"yazı:yazı"}},
			{"yaz", []string{"yaz:yaz_n", "ı:P3SG"}},
			{"yaz", []string{"yaz:yaz_n", "ı:ACC"}},
		}},
		{"gitti", []flat{{"git", []string{"git:git", "ti:PAST"}}}},
		{"gidiyordum", []flat{{"gid", []string{"gid:git", "iyor:PROG", "du:PAST", "m:A1SG"}}}},
		{"kitapçılar", []flat{{"kitap", []string{"kitap:kitap", "çı:AGT", "lar:PLU"}}}},
		{"arabanın", []flat{{"araba", []string{"araba:araba", "nın:GEN"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			sols, err := a.Analyze(tt.word)
			require.NoError(t, err)
			assert.Equal(t, tt.want, flatten(sols))
		})
	}
}

func TestAnalyze_SoftenedRootNeedsVowelSuffix(t *testing.T) {
	a := defaultAnalyzer(t)

	sols, err := a.Analyze("kitab")
	require.NoError(t, err)
	assert.Empty(t, sols)

	sols, err = a.Analyze("kitabta")
	require.NoError(t, err)
	assert.Empty(t, sols)
}

func TestAnalyze_UnknownWordHasNoSolutions(t *testing.T) {
	sols, err := defaultAnalyzer(t).Analyze("xyzzy")
	require.NoError(t, err)
	assert.Empty(t, sols)
}

func TestAnalyze_NonLetterIsAnError(t *testing.T) {
	_, err := defaultAnalyzer(t).Analyze("ev1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedChar))
	assert.Equal(t, "unsupported character '1'", err.Error())
}

func TestAnalyze_TurkishCaseFolding(t *testing.T) {
	a := defaultAnalyzer(t)

	sols, err := a.Analyze("KİTAPLAR")
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.Equal(t, "kitap", sols[0].Stem())

	// Dotless capital I folds to ı, so this is not "kitaplir".
	sols, err = a.Analyze("KIZI")
	require.NoError(t, err)
	assert.Len(t, sols, 2)
}

func TestAnalyze_MorphemeMetadata(t *testing.T) {
	sols, err := defaultAnalyzer(t).Analyze("kızı")
	require.NoError(t, err)
	require.NotEmpty(t, sols)

	atts := sols[0].Attachments()
	require.Len(t, atts, 2)
	root := atts[0].Morpheme()
	assert.Equal(t, "kız", root.LexicalForm())
	assert.Equal(t, "Noun", root.Type())
	assert.Equal(t, []string{"common", "animate"}, root.Labels())

	suffix := atts[1].Morpheme()
	assert.Equal(t, "(s)I", suffix.LexicalForm())
	assert.Equal(t, "ı", atts[1].Surface())
	assert.Equal(t, "Inflectional", suffix.Type())
}

func TestAnalyze_LabelsCannotMutateLexicon(t *testing.T) {
	a := defaultAnalyzer(t)
	sols, err := a.Analyze("ev")
	require.NoError(t, err)
	labels := sols[0].Attachments()[0].Morpheme().Labels()
	labels[0] = "mutated"

	sols, err = a.Analyze("ev")
	require.NoError(t, err)
	assert.Equal(t, []string{"common"}, sols[0].Attachments()[0].Morpheme().Labels())
}

func TestNew_RejectsInvalidLexicon(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidLexicon)

	_, err = New(&Lexicon{})
	assert.ErrorIs(t, err, ErrInvalidLexicon)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ışık", Normalize("IŞIK"))
	assert.Equal(t, "istanbul", Normalize("İstanbul"))
	// Decomposed I + combining dot above composes to İ before lower-casing.
	assert.Equal(t, "i", Normalize("I\u0307"))
}
