package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/Sanket-2736/newsreader/internal/news"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer headline here", 10, "a longe..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"anything", 0, ""},
		{"héllo wörld ünicode", 8, "héllo..."},
	}

	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}

	for _, tt := range tests {
		if got := relativeTime(tt.t); got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", time.Since(tt.t).Round(time.Second), got, tt.want)
		}
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got := relativeTime(old); got != old.Format("Jan 2") {
		t.Errorf("relativeTime(30d ago) = %q, want date", got)
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"general", "General"},
		{"technology", "Technology"},
		{"", ""},
		{"X", "X"},
	}

	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderListEmpty(t *testing.T) {
	got := renderList(nil, 0, nil, 10, 40, "No saved articles yet")
	if !strings.Contains(got, "No saved articles yet") {
		t.Errorf("empty list should show the placeholder, got %q", got)
	}
}

func TestRenderListScrollsToCursor(t *testing.T) {
	articles := make([]news.Article, 20)
	for i := range articles {
		articles[i] = news.Article{
			Title:       string(rune('A'+i)) + " headline",
			Source:      "Wire",
			URL:         "https://example.com/a",
			PublishedAt: time.Now(),
		}
	}

	// Height fits ~3 items; with the cursor at the end, the first item
	// must have scrolled out of view.
	got := renderList(articles, 19, nil, 9, 40, "")
	if strings.Contains(got, "A headline") {
		t.Errorf("first item should be scrolled out when cursor is at the end")
	}
	if !strings.Contains(got, "T headline") {
		t.Errorf("item under the cursor must be visible")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four five", 9)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width 9", line)
		}
	}
	if !strings.Contains(got, "one two") {
		t.Errorf("wrapped text lost content: %q", got)
	}
}
