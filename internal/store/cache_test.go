package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Sanket-2736/newsreader/internal/kv"
	"github.com/Sanket-2736/newsreader/internal/news"
)

func testArticles(n int) []news.Article {
	out := make([]news.Article, n)
	for i := range out {
		out[i] = news.Article{
			ID:          fmt.Sprintf("id-%d", i),
			Title:       fmt.Sprintf("Story %d", i),
			Description: "desc",
			URL:         fmt.Sprintf("https://example.com/%d", i),
			Category:    "general",
			PublishedAt: time.Now(),
		}
	}
	return out
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewNewsCache(kv.NewMemory(), zap.NewNop())

	c.Put(ctx, "general", testArticles(3), time.Hour)

	got, ok := c.Get(ctx, "general")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(got))
	}
	if got[0].Title != "Story 0" {
		t.Errorf("order not preserved: got %q first", got[0].Title)
	}
}

func TestGetMiss(t *testing.T) {
	c := NewNewsCache(kv.NewMemory(), zap.NewNop())
	if _, ok := c.Get(context.Background(), "sports"); ok {
		t.Error("expected miss for never-cached category")
	}
}

func TestExpirationEvicts(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	c := NewNewsCache(mem, zap.NewNop())

	// Negative ttl: entry is expired the moment it lands.
	c.Put(ctx, "general", testArticles(2), -time.Second)

	if _, ok := c.Get(ctx, "general"); ok {
		t.Fatal("expected expired entry to read as absent")
	}

	// The expired read must have deleted the record, not just hidden it.
	if _, ok, _ := mem.Get(ctx, "cached_news_general"); ok {
		t.Error("expired record still present after Get")
	}
}

func TestGetStaleIgnoresExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewNewsCache(kv.NewMemory(), zap.NewNop())

	c.Put(ctx, "general", testArticles(2), -time.Second)

	got, ok := c.GetStale(ctx, "general")
	if !ok || len(got) != 2 {
		t.Fatalf("GetStale = %d articles ok=%v, want 2", len(got), ok)
	}
}

func TestPutFiltersIncomplete(t *testing.T) {
	ctx := context.Background()
	c := NewNewsCache(kv.NewMemory(), zap.NewNop())

	arts := testArticles(1)
	arts = append(arts, news.Article{Title: "[Removed]", Description: "d", URL: "https://x"})
	arts = append(arts, news.Article{Title: "No URL", Description: "d"})
	c.Put(ctx, "general", arts, time.Hour)

	got, _ := c.Get(ctx, "general")
	if len(got) != 1 {
		t.Errorf("expected incomplete articles dropped at the cache boundary, got %d", len(got))
	}
}

func TestClearLeavesOtherKeys(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	log := zap.NewNop()
	c := NewNewsCache(mem, log)
	saved := NewSaved(mem, log)
	history := NewHistory(mem, log)

	c.Put(ctx, "general", testArticles(2), time.Hour)
	c.Put(ctx, "sports", testArticles(2), time.Hour)
	if _, err := saved.Save(ctx, testArticles(1)[0]); err != nil {
		t.Fatalf("save: %v", err)
	}
	history.Record(ctx, testArticles(1)[0])

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, ok := c.Get(ctx, "general"); ok {
		t.Error("cache entry survived Clear")
	}
	if _, ok := c.Get(ctx, "sports"); ok {
		t.Error("cache entry survived Clear")
	}
	if saved.Count(ctx) != 1 {
		t.Error("Clear touched saved articles")
	}
	if history.Count(ctx) != 1 {
		t.Error("Clear touched reading history")
	}
}

func TestInfoDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	c := NewNewsCache(mem, zap.NewNop())

	c.Put(ctx, "general", testArticles(3), time.Hour)
	c.Put(ctx, "sports", testArticles(2), -time.Second) // already expired

	info, err := c.Info(ctx)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.CategoryCount != 2 {
		t.Fatalf("expected 2 categories, got %d", info.CategoryCount)
	}
	if info.Categories["general"].Count != 3 {
		t.Errorf("general count = %d, want 3", info.Categories["general"].Count)
	}
	if info.TotalSizeBytes <= 0 {
		t.Error("expected non-zero total size")
	}

	// Size accounting must not expire entries as a side effect.
	if _, ok, _ := mem.Get(ctx, "cached_news_sports"); !ok {
		t.Error("Info evicted an expired entry")
	}
}

func TestMalformedEntryReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	mem.Set(ctx, "cached_news_general", "{not valid json")

	c := NewNewsCache(mem, zap.NewNop())
	if _, ok := c.Get(ctx, "general"); ok {
		t.Error("expected corrupt payload to read as absent")
	}
}

// faultyStore fails every operation, standing in for a broken substrate.
type faultyStore struct{}

var errBroken = errors.New("substrate broken")

func (faultyStore) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (faultyStore) Set(context.Context, string, string) error        { return errBroken }
func (faultyStore) Remove(context.Context, string) error             { return errBroken }
func (faultyStore) Keys(context.Context) ([]string, error)           { return nil, errBroken }
func (faultyStore) RemoveMany(context.Context, []string) error       { return errBroken }

func TestCacheDegradesOnStorageFault(t *testing.T) {
	ctx := context.Background()
	c := NewNewsCache(faultyStore{}, zap.NewNop())

	// Neither call may panic or surface the fault.
	c.Put(ctx, "general", testArticles(1), time.Hour)
	if _, ok := c.Get(ctx, "general"); ok {
		t.Error("expected miss from a failing store")
	}
}
