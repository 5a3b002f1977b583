package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error lipgloss.Style
	Focused, Disabled, Button            lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	SymOK, SymFail, SymCursor string
	MeterFull, MeterEmpty     string
}

var current = build("classic")

// Themes lists the accepted theme names.
func Themes() []string { return []string{"classic", "neon", "mono"} }

// SetTheme switches the palette. Unknown names fall back to classic.
func SetTheme(name string) {
	current = build(name)
}

// Current exposes what renderers need.
func Current() Theme { return current }

func build(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return Theme{
			Name:        "neon",
			Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Focused:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
			Disabled:    lipgloss.NewStyle().Faint(true),
			Button:      lipgloss.NewStyle().Bold(true).Padding(0, 2).Background(lipgloss.Color("13")).Foreground(lipgloss.Color("0")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
			SymOK:       "✔",
			SymFail:     "✖",
			SymCursor:   "▸",
			MeterFull:   "█",
			MeterEmpty:  "░",
		}
	case "mono":
		lipgloss.SetColorProfile(termenv.Ascii)
		plain := lipgloss.NewStyle()
		return Theme{
			Name:        "mono",
			Title:       plain.Bold(true),
			Muted:       plain,
			Accent:      plain,
			Success:     plain,
			Error:       plain.Bold(true),
			Focused:     plain.Underline(true),
			Disabled:    plain,
			Button:      plain.Padding(0, 1),
			Border:      lipgloss.NormalBorder(),
			BorderColor: lipgloss.NoColor{},
			SymOK:       "ok",
			SymFail:     "x",
			SymCursor:   ">",
			MeterFull:   "#",
			MeterEmpty:  "-",
		}
	default: // classic: the original form's pale green headings and red errors
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return Theme{
			Name:        "classic",
			Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5fffa")).Background(lipgloss.Color("#98fb98")).Padding(0, 1),
			Muted:       lipgloss.NewStyle().Faint(true),
			Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Focused:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff00")),
			Disabled:    lipgloss.NewStyle().Faint(true),
			Button:      lipgloss.NewStyle().Bold(true).Padding(0, 2).Foreground(lipgloss.Color("#f5fffa")).Background(lipgloss.Color("#98fb98")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),
			SymOK:       "✔",
			SymFail:     "✖",
			SymCursor:   ">",
			MeterFull:   "█",
			MeterEmpty:  "░",
		}
	}
}
