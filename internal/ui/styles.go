package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/TaskFlow/internal/task"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorText      = lipgloss.Color("252") // White
	ColorCyan      = lipgloss.Color("39")
)

// Base styles
var (
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)
	StyleCyan    = lipgloss.NewStyle().Foreground(ColorCyan)
	StyleBold    = lipgloss.NewStyle().Bold(true)
)

// Component styles
var (
	StyleInputBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary)

	StyleSectionTitle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan).
				MarginTop(1)

	StyleTaskCard = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorSecondary).
			PaddingLeft(1)

	StyleChip = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(lipgloss.Color("237")).
			Padding(0, 1)

	StyleChipActive = StyleChip.
			Foreground(lipgloss.Color("0")).
			Background(ColorPrimary)
)

// PriorityStyle returns the badge style for a task priority.
func PriorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	case task.PriorityMedium:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	case task.PriorityLow:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	default:
		return StyleSubtle
	}
}

// PriorityLabel returns the display label for a priority, e.g. "High".
func PriorityLabel(p task.Priority) string {
	if p == "" {
		return "Unset"
	}
	return cases.Title(language.English).String(string(p))
}
