// internal/metadata/googlebooks.go
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// BookInfo is the metadata extracted for a manual catalog entry.
type BookInfo struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"cover_url,omitempty"`
}

var ErrNoResults = errors.New("no matching book")

// Client fetches book metadata from the Google Books volumes API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates a Google Books client with polite rate limiting.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     "https://www.googleapis.com/books/v1",
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title      string   `json:"title"`
			Authors    []string `json:"authors"`
			ImageLinks struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// SearchByTitle looks up a book by free-text title and returns the first
// result's title, first author and thumbnail reference.
func (c *Client) SearchByTitle(ctx context.Context, title string) (*BookInfo, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	c.rateLimiter.wait()

	query := url.Values{}
	query.Set("q", "intitle:"+title)
	endpoint := fmt.Sprintf("%s/volumes?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "bookhive/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var volumes volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&volumes); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(volumes.Items) == 0 {
		return nil, fmt.Errorf("%q: %w", title, ErrNoResults)
	}

	info := volumes.Items[0].VolumeInfo
	author := "Unknown"
	if len(info.Authors) > 0 {
		author = info.Authors[0]
	}

	return &BookInfo{
		Title:    info.Title,
		Author:   author,
		CoverURL: info.ImageLinks.Thumbnail,
	}, nil
}
