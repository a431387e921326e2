package ui

import "github.com/charmbracelet/lipgloss"

// kept as one string so the block spacing survives rendering
const tvtoolsASCII = `████████ ██    ██ ████████  ██████   ██████  ██      ███████
   ██    ██    ██    ██    ██    ██ ██    ██ ██      ██
   ██    ██    ██    ██    ██    ██ ██    ██ ██      ███████
   ██     ██  ██     ██    ██    ██ ██    ██ ██           ██
   ██      ████      ██     ██████   ██████  ███████ ███████`

// FormatASCIIHeader renders the banner shown above a plan summary
func FormatASCIIHeader() string {
	return lipgloss.NewStyle().
		Foreground(RAMARed).
		Bold(true).
		Render(tvtoolsASCII)
}
