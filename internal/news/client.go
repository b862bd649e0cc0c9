package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const defaultBaseURL = "https://newsapi.org/v2"

// APIError is a failure reported by NewsAPI itself (status "error") or a
// non-2xx transport result.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("newsapi: %s", e.Message)
	}
	return fmt.Sprintf("newsapi: HTTP %d", e.StatusCode)
}

// Client fetches articles from NewsAPI.org. Articles are filtered and
// normalized before they leave this package: stories missing a title,
// description, or url (or carrying the removed-content placeholder) are
// dropped, each survivor gets a batch-unique id and a category tag, and
// timestamps are normalized.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	r := retryablehttp.NewClient()
	r.RetryMax = 2
	r.HTTPClient.Timeout = 10 * time.Second
	r.Logger = nil
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    r.StandardClient(),
	}
}

// NewClientWithBaseURL is used by tests to point at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type rawSource struct {
	Name string `json:"name"`
}

type rawArticle struct {
	Source      rawSource `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt string    `json:"publishedAt"`
}

type envelope struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []rawArticle `json:"articles"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
}

// TopHeadlines fetches the current headlines for one category and country.
func (c *Client) TopHeadlines(ctx context.Context, category, country string) ([]Article, error) {
	q := url.Values{}
	q.Set("country", country)
	if category != "" && category != "general" {
		q.Set("category", category)
	}
	arts, err := c.fetch(ctx, "/top-headlines", q, category)
	if err != nil {
		return nil, fmt.Errorf("fetching %s headlines: %w", category, err)
	}
	return arts, nil
}

// Everything searches all indexed articles for the query.
func (c *Client) Everything(ctx context.Context, query, sortBy string) ([]Article, error) {
	if sortBy == "" {
		sortBy = "publishedAt"
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("sortBy", sortBy)
	arts, err := c.fetch(ctx, "/everything", q, "search")
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	return arts, nil
}

func (c *Client) fetch(ctx context.Context, path string, q url.Values, category string) ([]Article, error) {
	q.Set("apiKey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if env.Status == "error" || resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}

	return normalize(env.Articles, category), nil
}

func normalize(raw []rawArticle, category string) []Article {
	now := time.Now()
	articles := make([]Article, 0, len(raw))
	for _, r := range raw {
		a := Article{
			ID:          uuid.NewString(),
			Source:      r.Source.Name,
			Author:      r.Author,
			Title:       r.Title,
			Description: r.Description,
			Content:     r.Content,
			URL:         r.URL,
			ImageURL:    r.URLToImage,
			Category:    category,
		}
		if !a.Complete() {
			continue
		}
		if t, err := time.Parse(time.RFC3339, r.PublishedAt); err == nil {
			a.PublishedAt = t
		} else {
			a.PublishedAt = now
		}
		articles = append(articles, a)
	}
	return articles
}
