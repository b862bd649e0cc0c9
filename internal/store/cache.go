// Package store implements the persisted stores: the per-category news
// cache, the saved-articles collection, and the reading history. All three
// share one key-value substrate and are isolated only by key naming.
package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Sanket-2736/newsreader/internal/kv"
	"github.com/Sanket-2736/newsreader/internal/news"
)

// Persisted key layout. Kept stable for compatibility with existing stores.
const (
	cachePrefix = "cached_news_"
	savedKey    = "saved_articles"
	historyKey  = "reading_history"
	settingsKey = "app_settings"
)

// DefaultTTL is how long a cached category feed stays fresh.
const DefaultTTL = time.Hour

// cacheEntry is the serialized record for one category.
type cacheEntry struct {
	Category  string         `json:"category"`
	Articles  []news.Article `json:"articles"`
	FetchedAt time.Time      `json:"fetchedAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// NewsCache holds one expiring article list per category. A cache failure is
// never an error to the caller: reads degrade to a miss and writes fail
// silently, so a broken store can slow the app down but not block a feed.
type NewsCache struct {
	kv  kv.Store
	log *zap.Logger
}

func NewNewsCache(store kv.Store, log *zap.Logger) *NewsCache {
	return &NewsCache{kv: store, log: log}
}

// Put overwrites the entry for category. Articles that slipped past the
// ingestion filter incomplete are dropped here as well.
func (c *NewsCache) Put(ctx context.Context, category string, articles []news.Article, ttl time.Duration) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	kept := make([]news.Article, 0, len(articles))
	for _, a := range articles {
		if a.Complete() {
			kept = append(kept, a)
		}
	}

	now := time.Now()
	entry := cacheEntry{
		Category:  category,
		Articles:  kept,
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		c.log.Warn("encoding cache entry", zap.String("category", category), zap.Error(err))
		return
	}
	if err := c.kv.Set(ctx, cachePrefix+category, string(data)); err != nil {
		c.log.Warn("caching articles", zap.String("category", category), zap.Error(err))
		return
	}
	c.log.Debug("cached articles", zap.String("category", category), zap.Int("count", len(kept)))
}

// Get returns the cached articles for category, or ok=false if the entry is
// missing, malformed, or expired. An expired record is deleted on the spot;
// there is no background sweep.
func (c *NewsCache) Get(ctx context.Context, category string) ([]news.Article, bool) {
	entry, ok := c.read(ctx, category)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		if err := c.kv.Remove(ctx, cachePrefix+category); err != nil {
			c.log.Warn("evicting expired entry", zap.String("category", category), zap.Error(err))
		}
		return nil, false
	}
	return entry.Articles, true
}

// GetStale reads the entry ignoring expiry. The feed loader uses it as the
// fallback when the network is down and stale data beats no data.
func (c *NewsCache) GetStale(ctx context.Context, category string) ([]news.Article, bool) {
	entry, ok := c.read(ctx, category)
	if !ok {
		return nil, false
	}
	return entry.Articles, true
}

func (c *NewsCache) read(ctx context.Context, category string) (cacheEntry, bool) {
	raw, ok, err := c.kv.Get(ctx, cachePrefix+category)
	if err != nil {
		c.log.Warn("reading cache", zap.String("category", category), zap.Error(err))
		return cacheEntry{}, false
	}
	if !ok {
		return cacheEntry{}, false
	}
	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// Corrupt payload from an older version: treat as absent.
		c.log.Warn("decoding cache entry", zap.String("category", category), zap.Error(err))
		return cacheEntry{}, false
	}
	return entry, true
}

// Clear removes every cached category. Saved articles and reading history
// live outside the cache prefix and are untouched.
func (c *NewsCache) Clear(ctx context.Context) error {
	keys, err := c.kv.Keys(ctx)
	if err != nil {
		return err
	}
	var cacheKeys []string
	for _, k := range keys {
		if strings.HasPrefix(k, cachePrefix) {
			cacheKeys = append(cacheKeys, k)
		}
	}
	return c.kv.RemoveMany(ctx, cacheKeys)
}

// CategoryInfo describes one cached category for display.
type CategoryInfo struct {
	Count     int
	FetchedAt time.Time
	SizeBytes int
}

// Info summarizes all cached categories.
type Info struct {
	Categories     map[string]CategoryInfo
	TotalSizeBytes int
	CategoryCount  int
}

// Info is a read-only accounting pass: it never evicts, even when an entry
// it reads has expired.
func (c *NewsCache) Info(ctx context.Context) (Info, error) {
	keys, err := c.kv.Keys(ctx)
	if err != nil {
		return Info{}, err
	}

	info := Info{Categories: make(map[string]CategoryInfo)}
	for _, k := range keys {
		if !strings.HasPrefix(k, cachePrefix) {
			continue
		}
		raw, ok, err := c.kv.Get(ctx, k)
		if err != nil || !ok {
			continue
		}
		var entry cacheEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		category := strings.TrimPrefix(k, cachePrefix)
		info.Categories[category] = CategoryInfo{
			Count:     len(entry.Articles),
			FetchedAt: entry.FetchedAt,
			SizeBytes: len(raw),
		}
		info.TotalSizeBytes += len(raw)
		info.CategoryCount++
	}
	return info, nil
}
