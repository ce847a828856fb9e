package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/signgen/internal/ui/styles"
)

// Header style for the title line.
var Header = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(styles.ColorBorder).
	Padding(0, 1)

// WordBadge style for the active word.
var WordBadge = lipgloss.NewStyle().
	Foreground(styles.ColorAccentPink).
	Bold(true).
	Padding(0, 1)

// Card style for an artifact card.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(styles.ColorBorder).
	Padding(0, 1)

// FailedCard style for a card whose fetch failed.
var FailedCard = Card.
	BorderForeground(styles.ColorError)

// CardTitle style for card headings.
var CardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(styles.ColorAccentBlue)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(styles.ColorSurface).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(styles.ColorAccentPink).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(styles.ColorTextMuted)

// Notice styles per notification level.
var (
	NoticeLoading = lipgloss.NewStyle().Foreground(styles.ColorAccentBlue)
	NoticeSuccess = lipgloss.NewStyle().Foreground(styles.ColorAccentGreen)
	NoticeInfo    = lipgloss.NewStyle().Foreground(styles.ColorTextPrimary)
	NoticeError   = lipgloss.NewStyle().Foreground(styles.ColorError).Bold(true)
)

// Badge styles per metrics status.
var (
	BadgeExcellent  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(styles.ColorAccentGreen).Padding(0, 1)
	BadgeGood       = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(styles.ColorAccentBlue).Padding(0, 1)
	BadgeAcceptable = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(styles.ColorWarning).Padding(0, 1)
	BadgePoor       = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(styles.ColorError).Padding(0, 1)
)
