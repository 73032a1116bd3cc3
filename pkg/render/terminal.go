package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/morphd/pkg/morph"
)

// DefaultWordWidth is the display width the word column is padded to.
const DefaultWordWidth = 16

// Terminal encodes results as one styled, human-readable line each.
// It is meant for interactive use; JSON remains the machine format.
type Terminal struct {
	theme     Theme
	wordWidth int
}

// NewTerminal creates a terminal encoder. Non-positive widths use
// DefaultWordWidth.
func NewTerminal(theme Theme, wordWidth int) *Terminal {
	if wordWidth <= 0 {
		wordWidth = DefaultWordWidth
	}
	return &Terminal{theme: theme, wordWidth: wordWidth}
}

// Encode implements Encoder.
func (t *Terminal) Encode(r morph.AnalysisResult) ([]byte, error) {
	var sb strings.Builder
	// Pad by display width so Turkish and CJK input line up alike.
	sb.WriteString(t.theme.Word.Render(runewidth.FillRight(r.Word, t.wordWidth)))
	sb.WriteString("  ")

	switch {
	case r.Failed():
		msg := strings.ReplaceAll(r.ErrorMessage(), "\n", " ")
		sb.WriteString(t.theme.Error.Render(t.theme.Icons.Fail + " " + msg))
	case len(r.Analyses) == 0:
		sb.WriteString(t.theme.Muted.Render(t.theme.Icons.Empty + " no analyses"))
	default:
		parts := make([]string, 0, len(r.Analyses))
		for _, a := range r.Analyses {
			parts = append(parts, t.renderAnalysis(a))
		}
		sb.WriteString(strings.Join(parts, t.theme.Muted.Render(t.theme.Icons.Sep)))
	}
	return []byte(sb.String()), nil
}

func (t *Terminal) renderAnalysis(a morph.DetailedAnalysis) string {
	var sb strings.Builder
	sb.WriteString(t.theme.Stem.Render(a.Stem))
	sb.WriteString(t.theme.Muted.Render(" = "))
	for i, m := range a.Morphemes {
		if i > 0 {
			sb.WriteString(t.theme.Muted.Render(" " + t.theme.Icons.Join + " "))
		}
		sb.WriteString(t.renderMorpheme(m))
	}
	return sb.String()
}

func (t *Terminal) renderMorpheme(m morph.MorphemeDetail) string {
	if m.HasChange {
		return t.theme.Changed.Render(m.Surface) + t.theme.Tag.Render("["+m.LexicalForm+" "+m.ID+"]")
	}
	return t.theme.Unchanged.Render(m.Surface) + t.theme.Tag.Render("["+m.ID+"]")
}
