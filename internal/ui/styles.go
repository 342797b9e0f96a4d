package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Styles is the set of styles bound to one output writer.
type Styles struct {
	// Title is the client banner.
	Title lipgloss.Style
	// Progress marks the "probing" line.
	Progress lipgloss.Style
	// Label is used for report field names.
	Label lipgloss.Style
	// Success is the alive banner.
	Success lipgloss.Style
	// Failure is used for schema mismatches and fatal argument errors.
	Failure lipgloss.Style
	// Warning is used for per-target fetch errors.
	Warning lipgloss.Style
}

// NewStyles returns styles rendering for w. Writers that are not a terminal
// get an ASCII profile, which renders every style as plain text.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	if !IsTerminal(w) {
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(White),
		Progress: r.NewStyle().Foreground(Blue),
		Label:    r.NewStyle().Foreground(Gray).Bold(true),
		Success:  r.NewStyle().Foreground(Green).Bold(true),
		Failure:  r.NewStyle().Foreground(Red).Bold(true),
		Warning:  r.NewStyle().Foreground(Yellow),
	}
}

// Plain returns styles that never emit escape sequences.
func Plain() Styles {
	return NewStyles(io.Discard)
}

// IsTerminal reports whether w is an *os.File attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
