package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the styles used by the Terminal encoder.
type Theme struct {
	Name      string
	Word      lipgloss.Style
	Stem      lipgloss.Style
	Changed   lipgloss.Style // surface differs from lexical form
	Unchanged lipgloss.Style
	Tag       lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Icons     ThemeIcons
}

// ThemeIcons defines the glyphs for a theme.
type ThemeIcons struct {
	Fail  string
	Empty string
	Join  string
	Sep   string
}

// DefaultTheme returns the colored theme, with styles bound to r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Name:      "default",
		Word:      r.NewStyle().Bold(true),
		Stem:      r.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Changed:   r.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Unchanged: r.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Tag:       r.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Error:     r.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:     r.NewStyle().Foreground(lipgloss.Color("242")),
		Icons: ThemeIcons{
			Fail:  "✗",
			Empty: "○",
			Join:  "+",
			Sep:   " · ",
		},
	}
}

// MonoTheme returns an ASCII theme without colors.
func MonoTheme(r *lipgloss.Renderer) Theme {
	plain := r.NewStyle()
	return Theme{
		Name:      "mono",
		Word:      plain,
		Stem:      plain,
		Changed:   plain,
		Unchanged: plain,
		Tag:       plain,
		Error:     plain,
		Muted:     plain,
		Icons: ThemeIcons{
			Fail:  "x",
			Empty: "-",
			Join:  "+",
			Sep:   " | ",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string, r *lipgloss.Renderer) Theme {
	if name == "mono" {
		return MonoTheme(r)
	}
	return DefaultTheme(r)
}

// ThemeNames lists the accepted theme names.
func ThemeNames() []string {
	return []string{"default", "mono"}
}
