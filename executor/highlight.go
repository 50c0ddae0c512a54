package executor

import "github.com/charmbracelet/lipgloss"

var highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

// Highlight renders s in the accent colour used for file and script names.
// Without a colour terminal the string is returned unchanged.
func Highlight(s string) string {
	return highlightStyle.Render(s)
}
