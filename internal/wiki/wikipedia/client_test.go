package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(Config{
		BaseURL:   srv.URL,
		UserAgent: "test-agent",
	})
	return client, srv
}

func TestSummarySuccess(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest_v1/page/summary/Go_(programming_language)", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"title": "Go (programming language)",
			"extract": "Go is a statically typed language.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Go_(programming_language)"}},
			"thumbnail": {"source": "https://upload.wikimedia.org/go-logo.png"}
		}`))
	})
	defer srv.Close()

	article, err := client.Summary(context.Background(), "Go (programming language)")
	require.NoError(t, err)

	assert.Equal(t, "Go (programming language)", article.Title)
	assert.Equal(t, "Go is a statically typed language.", article.Summary)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Go_(programming_language)", article.URL)
	assert.Equal(t, "https://upload.wikimedia.org/go-logo.png", article.MainImage)
}

func TestSummaryTruncatesLongExtract(t *testing.T) {
	long := strings.Repeat("a", 600)
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "Long", "extract": "` + long + `", "content_urls": {"desktop": {"page": "https://example.org"}}}`))
	})
	defer srv.Close()

	article, err := client.Summary(context.Background(), "Long")
	require.NoError(t, err)

	assert.Len(t, article.Summary, 503)
	assert.True(t, strings.HasSuffix(article.Summary, "..."))
}

func TestSummaryShortExtractUntouched(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "Short", "extract": "brief", "content_urls": {"desktop": {"page": "https://example.org"}}}`))
	})
	defer srv.Close()

	article, err := client.Summary(context.Background(), "Short")
	require.NoError(t, err)
	assert.Equal(t, "brief", article.Summary)
}

func TestSummaryMissingThumbnailIsNotAnError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "Plain", "extract": "text", "content_urls": {"desktop": {"page": "https://example.org"}}}`))
	})
	defer srv.Close()

	article, err := client.Summary(context.Background(), "Plain")
	require.NoError(t, err)
	assert.Empty(t, article.MainImage)
}

func TestSummaryNotFound(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	_, err := client.Summary(context.Background(), "No Such Article")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestSummaryUpstreamError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := client.Summary(context.Background(), "Anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrArticleNotFound)
}
