package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(articleCount int, label string, width int, searching, refreshing bool, notice string, errText string) string {
	left := fmt.Sprintf(" %d articles", articleCount)
	if label != "" {
		left += " · " + label
	}
	if refreshing {
		left += " (refreshing...)"
	}

	right := " / search  s save  r refresh  ? help  q quit "
	if searching {
		right = " esc back  enter search "
	}

	switch {
	case errText != "":
		left = " " + errorStyle.Render(errText)
	case notice != "":
		left = " " + statusNoticeStyle.Render(notice)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
