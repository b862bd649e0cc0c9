// Package loader decides where a feed comes from: cache, network, or stale
// cache as a fallback. Every category screen loads through it.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Sanket-2736/newsreader/internal/news"
	"github.com/Sanket-2736/newsreader/internal/store"
)

// ErrNoArticles marks a reachable API that returned zero qualifying
// articles. Distinct from a transport failure: the feed is empty, not
// broken.
var ErrNoArticles = errors.New("no articles")

// Source is the remote news API as the loader sees it.
type Source interface {
	TopHeadlines(ctx context.Context, category, country string) ([]news.Article, error)
	Everything(ctx context.Context, query, sortBy string) ([]news.Article, error)
}

// Result is one load outcome. FromCache marks cached (possibly stale)
// content; Err and Articles are mutually exclusive except when a background
// refresh fails after cached content was already served, in which case the
// caller keeps what it has.
type Result struct {
	Category  string
	Articles  []news.Article
	FromCache bool
	Err       error
}

type Loader struct {
	source  Source
	cache   *store.NewsCache
	country string
	ttl     time.Duration
	log     *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

func New(source Source, cache *store.NewsCache, country string, ttl time.Duration, log *zap.Logger) *Loader {
	return &Loader{
		source:   source,
		cache:    cache,
		country:  country,
		ttl:      ttl,
		log:      log,
		inflight: make(map[string]bool),
	}
}

// Load resolves the feed for one category.
//
// With useCache and a fresh cache entry, the entry is returned immediately
// and a background refresh is started; its outcome arrives on the returned
// channel (at most one send, then close). Without a usable entry the call
// blocks on the network; a transport failure falls back to whatever the
// cache still holds, expired or not. The channel is nil when no background
// refresh was started.
func (l *Loader) Load(ctx context.Context, category string, useCache bool) (Result, <-chan Result) {
	if useCache {
		if articles, ok := l.cache.Get(ctx, category); ok && len(articles) > 0 {
			updates := make(chan Result, 1)
			if l.tryBegin(category) {
				go func() {
					defer close(updates)
					defer l.end(category)
					updates <- l.fetch(ctx, category)
				}()
			} else {
				// A refresh for this category is already running; serve
				// the cache and let that one land.
				close(updates)
			}
			return Result{Category: category, Articles: articles, FromCache: true}, updates
		}
	}

	res := l.fetch(ctx, category)
	if res.Err != nil && !errors.Is(res.Err, ErrNoArticles) {
		// Network down: stale data beats no data.
		if articles, ok := l.cache.GetStale(ctx, category); ok && len(articles) > 0 {
			l.log.Info("serving stale cache after fetch failure",
				zap.String("category", category), zap.Error(res.Err))
			return Result{Category: category, Articles: articles, FromCache: true}, nil
		}
	}
	return res, nil
}

// Refresh forces a network round-trip regardless of cache state.
func (l *Loader) Refresh(ctx context.Context, category string) Result {
	res, _ := l.Load(ctx, category, false)
	return res
}

// Search queries the network directly; search results are never cached.
func (l *Loader) Search(ctx context.Context, query string) Result {
	articles, err := l.source.Everything(ctx, query, "publishedAt")
	if err != nil {
		return Result{Category: "search", Err: err}
	}
	if len(articles) == 0 {
		return Result{Category: "search", Err: fmt.Errorf("%w for %q", ErrNoArticles, query)}
	}
	return Result{Category: "search", Articles: articles}
}

func (l *Loader) fetch(ctx context.Context, category string) Result {
	articles, err := l.source.TopHeadlines(ctx, category, l.country)
	if err != nil {
		return Result{Category: category, Err: err}
	}
	if len(articles) == 0 {
		return Result{Category: category, Err: fmt.Errorf("%w for %s", ErrNoArticles, category)}
	}
	// Overlapping refreshes are not serialized; a fetch carries a complete
	// category snapshot, so the later write winning is fine.
	l.cache.Put(ctx, category, articles, l.ttl)
	return Result{Category: category, Articles: articles}
}

func (l *Loader) tryBegin(category string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inflight[category] {
		return false
	}
	l.inflight[category] = true
	return true
}

func (l *Loader) end(category string) {
	l.mu.Lock()
	delete(l.inflight, category)
	l.mu.Unlock()
}
