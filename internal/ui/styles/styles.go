// Package styles holds the colors and shared lipgloss styles of the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorTextPrimary = lipgloss.Color("255")
	ColorTextMuted   = lipgloss.Color("241")
	ColorBorder      = lipgloss.Color("62")
	ColorSurface     = lipgloss.Color("236")
	ColorAccentBlue  = lipgloss.Color("39")
	ColorAccentGreen = lipgloss.Color("78")
	ColorAccentPink  = lipgloss.Color("212")
	ColorWarning     = lipgloss.Color("214")
	ColorError       = lipgloss.Color("196")
)

// Help is dim text for key hints and explanations.
var Help = lipgloss.NewStyle().
	Foreground(ColorTextMuted)

// SystemMessage confirms an action.
var SystemMessage = lipgloss.NewStyle().
	Foreground(ColorAccentGreen)

// Title is a bold section heading.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorTextPrimary)

// ErrorText highlights a failure.
var ErrorText = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// Box is the rounded frame used by dialogs.
func Box(width, height int) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(1, 2)
	if width > 4 {
		s = s.Width(width - 4)
	}
	if height > 4 {
		s = s.Height(height - 4)
	}
	return s
}
