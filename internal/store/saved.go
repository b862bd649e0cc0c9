package store

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Sanket-2736/newsreader/internal/kv"
	"github.com/Sanket-2736/newsreader/internal/news"
)

// SavedArticle is one saved story with the moment it was saved.
type SavedArticle struct {
	news.Article
	SavedAt time.Time `json:"savedAt"`
}

// Saved is the user-curated offline reading list, deduplicated by article
// URL. The underlying store only replaces whole values, so every mutation is
// a read-modify-write of the full collection; fine at user-curated sizes.
type Saved struct {
	kv  kv.Store
	log *zap.Logger
}

func NewSaved(store kv.Store, log *zap.Logger) *Saved {
	return &Saved{kv: store, log: log}
}

// Save appends the article unless its URL is already present. Returns
// (false, nil) for a duplicate and (false, err) for a storage fault; the two
// are distinct conditions and callers message them differently.
func (s *Saved) Save(ctx context.Context, article news.Article) (bool, error) {
	saved, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for _, sa := range saved {
		if sa.URL == article.URL {
			return false, nil
		}
	}
	saved = append(saved, SavedArticle{Article: article, SavedAt: time.Now()})
	if err := s.persist(ctx, saved); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the article with the given URL. Removing a URL that was
// never saved is a successful no-op.
func (s *Saved) Remove(ctx context.Context, url string) error {
	saved, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := saved[:0]
	for _, sa := range saved {
		if sa.URL != url {
			kept = append(kept, sa)
		}
	}
	return s.persist(ctx, kept)
}

func (s *Saved) IsSaved(ctx context.Context, url string) (bool, error) {
	saved, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for _, sa := range saved {
		if sa.URL == url {
			return true, nil
		}
	}
	return false, nil
}

// List returns the collection in insertion order.
func (s *Saved) List(ctx context.Context) ([]SavedArticle, error) {
	return s.load(ctx)
}

func (s *Saved) Count(ctx context.Context) int {
	saved, err := s.load(ctx)
	if err != nil {
		return 0
	}
	return len(saved)
}

func (s *Saved) load(ctx context.Context) ([]SavedArticle, error) {
	raw, ok, err := s.kv.Get(ctx, savedKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var saved []SavedArticle
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		// Corrupt collection: start over rather than brick saving forever.
		s.log.Warn("decoding saved articles", zap.Error(err))
		return nil, nil
	}
	return saved, nil
}

func (s *Saved) persist(ctx context.Context, saved []SavedArticle) error {
	if saved == nil {
		saved = []SavedArticle{}
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, savedKey, string(data))
}
