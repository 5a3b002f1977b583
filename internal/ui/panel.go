package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Output targets, swappable in tests.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func resetOutputs() {
	Stdout, Stderr = os.Stdout, os.Stderr
}

// Meter renders a character-budget bar: used of limit, width cells wide.
func Meter(used, limit, width int) string {
	if limit <= 0 {
		limit = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(used) / float64(limit) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	t := Current()
	bar := strings.Repeat(t.MeterFull, filled) + strings.Repeat(t.MeterEmpty, width-filled)
	return fmt.Sprintf("%s %d/%d", bar, used, limit)
}

// PanelString frames lines in a box using the current theme.
func PanelString(lines []string) string {
	t := Current()
	border := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	return border.Render(strings.Join(lines, "\n"))
}

// Panel prints a framed box to Stdout.
func Panel(lines []string) {
	fmt.Fprintln(Stdout, PanelString(lines))
}

func OK(msg string)   { fmt.Fprintln(Stdout, Current().Success.Render(Current().SymOK+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Stderr, Current().Error.Render(Current().SymFail+" "+msg)) }
