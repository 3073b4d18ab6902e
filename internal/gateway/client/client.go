package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrUnavailable covers every transport-level failure talking to a
// backend; callers surface it as a generic "service unavailable".
var ErrUnavailable = errors.New("service unavailable")

// Response is a backend reply captured for relaying to the browser.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Backend is a thin forwarding client for one internal service. The
// timeout is short and fixed; there are no retries.
type Backend struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

func NewBackend(name, baseURL string) *Backend {
	return &Backend{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Do forwards one request and buffers the reply. Backend 4xx/5xx are
// not errors here; the status is passed through to the browser.
func (b *Backend) Do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*Response, error) {
	endpoint := b.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, b.name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, b.name, err)
	}

	contentType = resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        data,
	}, nil
}
