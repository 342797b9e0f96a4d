// Package ui holds the colour palette and styles used for terminal output.
// Styling is only applied when the destination is a terminal; any other
// writer gets plain text so piped reports stay byte-exact.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	White  = lipgloss.Color("#E2E2E2")
	Gray   = lipgloss.Color("#888888")
	Blue   = lipgloss.Color("#5FAFFF")
	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")
)
