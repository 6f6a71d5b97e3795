package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#2563EB")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#15803D")
	colorWarn    = lipgloss.Color("#A16207")
	colorError   = lipgloss.Color("#B91C1C")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)

	filterStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeFilterStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).Background(colorAccent)

	titleStyle     = lipgloss.NewStyle().Bold(true)
	doneTitleStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
	descStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	cursorStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	completedBadge  = lipgloss.NewStyle().Foreground(colorSuccess).SetString("Completed")
	incompleteBadge = lipgloss.NewStyle().Foreground(colorWarn).SetString("Incomplete")

	toastSuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	toastErrorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	emptyStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	formStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
)
