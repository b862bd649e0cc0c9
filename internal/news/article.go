package news

import "time"

// Article is one story as served to the rest of the app. URL is the natural
// key for save/history deduplication; ID is only unique within a fetch batch.
type Article struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    string    `json:"category"`
}

// Complete reports whether the article carries the fields every consumer
// relies on. Enforced at ingestion and again defensively at the cache
// boundary.
func (a Article) Complete() bool {
	return a.Title != "" && a.Title != removedTitle && a.Description != "" && a.URL != ""
}

// removedTitle is the placeholder NewsAPI substitutes for withdrawn content.
const removedTitle = "[Removed]"
