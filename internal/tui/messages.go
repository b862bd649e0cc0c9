package tui

import (
	"github.com/Sanket-2736/newsreader/internal/loader"
	"github.com/Sanket-2736/newsreader/internal/store"
)

// feedLoadedMsg carries the immediate result of a feed load; updates is
// non-nil when a background refresh was started for a cache hit.
type feedLoadedMsg struct {
	result  loader.Result
	updates <-chan loader.Result
}

// refreshDoneMsg is the delayed outcome of a background refresh.
type refreshDoneMsg struct {
	result loader.Result
}

// debounceFiredMsg fires when the search quiescence window elapses. gen
// identifies the keystroke that armed the timer; stale generations are
// dropped.
type debounceFiredMsg struct {
	gen int
}

type searchDoneMsg struct {
	gen    int
	result loader.Result
}

type savedListMsg struct {
	articles []store.SavedArticle
}

type historyListMsg struct {
	entries []store.HistoryEntry
}

type cacheInfoMsg struct {
	info         store.Info
	savedCount   int
	historyCount int
}

type cacheClearedMsg struct {
	err error
}

// statusMsg is a transient notice shown in the status bar.
type statusMsg struct {
	text string
}

type clearStatusMsg struct{}

type openDoneMsg struct {
	err error
}
