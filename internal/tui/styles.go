package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	labelStyle   = lipgloss.NewStyle().Width(16)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	barFullStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	statusStyles = map[string]lipgloss.Style{
		"Surplus":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		"Deficit":  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		"Adequate": lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	}
)
