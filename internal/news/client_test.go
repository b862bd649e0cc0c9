package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const headlinesBody = `{
	"status": "ok",
	"totalResults": 3,
	"articles": [
		{
			"source": {"name": "BBC News"},
			"title": "Valid story",
			"description": "Something happened",
			"url": "https://example.com/a",
			"publishedAt": "2026-08-28T10:00:00Z"
		},
		{
			"source": {"name": "CNN"},
			"title": "[Removed]",
			"description": "Withdrawn",
			"url": "https://example.com/b",
			"publishedAt": "2026-08-28T11:00:00Z"
		},
		{
			"source": {"name": "Reuters"},
			"title": "No description",
			"description": null,
			"url": "https://example.com/c",
			"publishedAt": "2026-08-28T12:00:00Z"
		}
	]
}`

func testServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("test-key", srv.URL)
}

func TestTopHeadlinesFiltersIncomplete(t *testing.T) {
	c := testServer(t, http.StatusOK, headlinesBody)

	got, err := c.TopHeadlines(context.Background(), "general", "us")
	if err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 article after filtering, got %d", len(got))
	}
	a := got[0]
	if a.Title != "Valid story" {
		t.Errorf("title = %q", a.Title)
	}
	if a.Category != "general" {
		t.Errorf("category = %q, want general", a.Category)
	}
	if a.ID == "" {
		t.Error("expected synthetic id")
	}
	if a.PublishedAt.IsZero() {
		t.Error("expected normalized publishedAt")
	}
}

func TestAPIErrorStatus(t *testing.T) {
	c := testServer(t, http.StatusOK, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`)

	_, err := c.TopHeadlines(context.Background(), "general", "us")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != "apiKeyInvalid" {
		t.Errorf("code = %q", apiErr.Code)
	}
}

func TestAPIErrorHTTP(t *testing.T) {
	c := testServer(t, http.StatusUnauthorized, `{"status":"error","message":"unauthorized"}`)

	_, err := c.Everything(context.Background(), "golang", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestEverythingTagsSearchCategory(t *testing.T) {
	c := testServer(t, http.StatusOK, headlinesBody)

	got, err := c.Everything(context.Background(), "anything", "")
	if err != nil {
		t.Fatalf("Everything: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	if got[0].Category != "search" {
		t.Errorf("category = %q, want search", got[0].Category)
	}
}

func TestNormalizeUniqueIDs(t *testing.T) {
	raw := []rawArticle{
		{Source: rawSource{Name: "A"}, Title: "One", Description: "d", URL: "https://a", PublishedAt: "2026-01-01T00:00:00Z"},
		{Source: rawSource{Name: "B"}, Title: "Two", Description: "d", URL: "https://b", PublishedAt: "bad-timestamp"},
	}
	got := normalize(raw, "business")
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Error("expected distinct ids within a batch")
	}
	if got[1].PublishedAt.IsZero() {
		t.Error("unparseable publishedAt should fall back to now")
	}
}

func TestCompleteArticle(t *testing.T) {
	tests := []struct {
		name string
		a    Article
		want bool
	}{
		{"ok", Article{Title: "t", Description: "d", URL: "u"}, true},
		{"no title", Article{Description: "d", URL: "u"}, false},
		{"removed", Article{Title: "[Removed]", Description: "d", URL: "u"}, false},
		{"no description", Article{Title: "t", URL: "u"}, false},
		{"no url", Article{Title: "t", Description: "d"}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Complete(); got != tt.want {
			t.Errorf("%s: Complete() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
