package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the plover UI.
type Theme struct {
	Name string

	Surface string // header and footer background

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string

	// LevelColors map log levels and row states to colors.
	LevelColors map[string]string
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),
		Title: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),
		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
	}
}

// Styles bundles the lipgloss styles derived from a Theme.
type Styles struct {
	Header      lipgloss.Style
	Title       lipgloss.Style
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
}

// LevelStyle returns the style for a row state such as a log level.
func (t Theme) LevelStyle(level string) lipgloss.Style {
	if color, ok := t.LevelColors[strings.ToLower(level)]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
}

var themes = map[string]Theme{
	"dusk": {
		Name:    "dusk",
		Surface: "#282a36",
		Text:    "#f8f8f2",
		Muted:   "#8a8ca8",
		Faint:   "#55577a",
		Accent:  "#bd93f9",
		Success: "#50fa7b",
		Warning: "#f1fa8c",
		Danger:  "#ff5555",
		LevelColors: map[string]string{
			"error": "#ff5555",
			"warn":  "#f1fa8c",
			"debug": "#55577a",
			"info":  "#f8f8f2",
		},
	},
	"paper": {
		Name:    "paper",
		Surface: "#e8e4d8",
		Text:    "#1c1b17",
		Muted:   "#6b675c",
		Faint:   "#a8a396",
		Accent:  "#7646ba",
		Success: "#2a7d3f",
		Warning: "#9a6a00",
		Danger:  "#b3172d",
		LevelColors: map[string]string{
			"error": "#b3172d",
			"warn":  "#9a6a00",
			"debug": "#a8a396",
			"info":  "#1c1b17",
		},
	},
}

// themeOrder fixes the cycle order for the theme key.
var themeOrder = []string{"dusk", "paper"}

// ThemeByName resolves a theme case-insensitively, defaulting to dusk.
func ThemeByName(name string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return themes["dusk"]
}

// NextTheme returns the name of the theme following name in the cycle.
// Unknown names resolve like ThemeByName before cycling.
func NextTheme(name string) string {
	current := ThemeByName(name).Name
	for i, n := range themeOrder {
		if n == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}
