package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RAMA palette (sysc family)
var (
	RAMARed        = lipgloss.Color("#ef233c")
	RAMABackground = lipgloss.Color("#2b2d42")
	RAMAForeground = lipgloss.Color("#edf2f4")
	RAMAMuted      = lipgloss.Color("#8d99ae")

	ColorSuccess = lipgloss.Color("#2ecc71")
	ColorWarning = lipgloss.Color("#f39c12")
	ColorError   = RAMARed
	ColorInfo    = lipgloss.Color("#3498db")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RAMAForeground).
			Background(RAMARed).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(RAMAMuted).
			Background(RAMABackground).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RAMARed).
			MarginTop(1)

	ContentStyle = lipgloss.NewStyle().Foreground(RAMAForeground)
	MutedStyle   = lipgloss.NewStyle().Foreground(RAMAMuted)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	StatStyle    = lipgloss.NewStyle().Foreground(RAMARed).Bold(true)

	// old name side of a rename
	FromStyle = lipgloss.NewStyle().Foreground(RAMAMuted).Strikethrough(true)
	// new name side of a rename
	ToStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)

	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)

// FormatKeybinding formats a keybinding for display in footer
func FormatKeybinding(key, description string) string {
	return StatStyle.Render(key) + " " + MutedStyle.Render(description)
}

// FormatHeader renders a full-width header bar
func FormatHeader(title string, width int) string {
	return HeaderStyle.Width(width).Render(title)
}

// FormatFooter renders a full-width footer of keybindings
func FormatFooter(width int, keybindings ...string) string {
	return FooterStyle.Width(width).Render(strings.Join(keybindings, "  "))
}
