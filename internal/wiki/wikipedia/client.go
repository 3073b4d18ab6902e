package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrArticleNotFound means the query resolved to no article, which is a
// normal outcome, not an upstream failure.
var ErrArticleNotFound = errors.New("article not found")

// summaryLimit caps the plain-text summary; longer extracts get an
// ellipsis marker.
const summaryLimit = 500

type Config struct {
	BaseURL   string
	UserAgent string
}

// Client looks up article summaries through the Wikipedia REST API.
type Client struct {
	httpClient *http.Client
	config     Config
}

func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		config: cfg,
	}
}

// Summary resolves a free-text query to a normalized article. A missing
// thumbnail leaves MainImage empty; that is not an error.
func (c *Client) Summary(ctx context.Context, query string) (*Article, error) {
	title := strings.ReplaceAll(strings.TrimSpace(query), " ", "_")
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", c.config.BaseURL, url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrArticleNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from wikipedia: %d", resp.StatusCode)
	}

	var payload summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode wikipedia response: %w", err)
	}

	article := &Article{
		Title:   payload.Title,
		Summary: truncate(payload.Extract, summaryLimit),
		URL:     payload.ContentURLs.Desktop.Page,
	}
	if payload.Thumbnail != nil {
		article.MainImage = payload.Thumbnail.Source
	}

	return article, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
