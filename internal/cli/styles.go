package cli

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Width(12)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f39c12")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d16d7a")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
)

func mark(ok bool) string {
	if ok {
		return okStyle.Render("✓")
	}
	return errorStyle.Render("✗")
}
