package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// fixed right-hand tabs after the category tabs
var extraTabs = []string{"Search", "Saved", "History", "Settings"}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// renderTabs draws the category tabs followed by the fixed views. active is
// an index into categories for the feed view, or len(categories)+n for the
// nth extra tab.
func renderTabs(categories []string, active, width int) string {
	labels := make([]string, 0, len(categories)+len(extraTabs))
	for _, c := range categories {
		labels = append(labels, capitalize(c))
	}
	labels = append(labels, extraTabs...)

	sep := tabSeparatorStyle.Render(" ")
	var row string
	for i, label := range labels {
		style := tabInactiveStyle
		if i == active {
			style = tabActiveStyle
		}
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += style.Render(label)
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	return lipgloss.NewStyle().Width(width).PaddingLeft(1).Render(row)
}
