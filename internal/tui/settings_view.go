package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sanket-2736/newsreader/internal/store"
)

func formatBytes(b int) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func renderSettings(info *store.Info, savedCount, historyCount, width, height int) string {
	var b strings.Builder

	b.WriteString(settingsHeadingStyle.Render("Cache"))
	b.WriteString("\n\n")

	if info == nil {
		b.WriteString(settingsDimStyle.Render("  loading...\n"))
	} else if info.CategoryCount == 0 {
		b.WriteString(settingsDimStyle.Render("  (empty)"))
		b.WriteString("\n")
	} else {
		categories := make([]string, 0, len(info.Categories))
		for c := range info.Categories {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			ci := info.Categories[c]
			b.WriteString(fmt.Sprintf("  %-14s %3d articles  %8s  fetched %s\n",
				capitalize(c), ci.Count, formatBytes(ci.SizeBytes), relativeTime(ci.FetchedAt)))
		}
		b.WriteString(fmt.Sprintf("\n  %d categories, %s total\n",
			info.CategoryCount, formatBytes(info.TotalSizeBytes)))
	}

	b.WriteString("\n")
	b.WriteString(settingsHeadingStyle.Render("Library"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  Saved articles   %d\n", savedCount))
	b.WriteString(fmt.Sprintf("  Reading history  %d\n", historyCount))
	b.WriteString("\n")
	b.WriteString(settingsDimStyle.Render("  c clear cache"))

	lines := strings.Split(b.String(), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
