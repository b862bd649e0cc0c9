package store

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Sanket-2736/newsreader/internal/kv"
	"github.com/Sanket-2736/newsreader/internal/news"
)

// HistoryCap bounds the reading history; the oldest entries fall off.
const HistoryCap = 50

// HistoryEntry is one opened article with the moment it was read.
type HistoryEntry struct {
	news.Article
	ReadAt time.Time `json:"readAt"`
}

// History is the newest-first log of opened articles, deduplicated by URL
// and capped at HistoryCap.
type History struct {
	kv  kv.Store
	log *zap.Logger
}

func NewHistory(store kv.Store, log *zap.Logger) *History {
	return &History{kv: store, log: log}
}

// Record puts the article at the front of the history. Re-reading an
// article moves it to the front instead of duplicating it. Faults are
// logged and dropped: history is best-effort by design.
func (h *History) Record(ctx context.Context, article news.Article) {
	entries, err := h.load(ctx)
	if err != nil {
		h.log.Warn("reading history", zap.Error(err))
		return
	}

	kept := make([]HistoryEntry, 0, len(entries)+1)
	kept = append(kept, HistoryEntry{Article: article, ReadAt: time.Now()})
	for _, e := range entries {
		if e.URL != article.URL {
			kept = append(kept, e)
		}
	}
	if len(kept) > HistoryCap {
		kept = kept[:HistoryCap]
	}

	data, err := json.Marshal(kept)
	if err != nil {
		h.log.Warn("encoding history", zap.Error(err))
		return
	}
	if err := h.kv.Set(ctx, historyKey, string(data)); err != nil {
		h.log.Warn("writing history", zap.Error(err))
	}
}

// List returns the history newest-first, length at most HistoryCap.
func (h *History) List(ctx context.Context) ([]HistoryEntry, error) {
	return h.load(ctx)
}

func (h *History) Count(ctx context.Context) int {
	entries, err := h.load(ctx)
	if err != nil {
		return 0
	}
	return len(entries)
}

func (h *History) load(ctx context.Context) ([]HistoryEntry, error) {
	raw, ok, err := h.kv.Get(ctx, historyKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var entries []HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		h.log.Warn("decoding history", zap.Error(err))
		return nil, nil
	}
	return entries, nil
}
