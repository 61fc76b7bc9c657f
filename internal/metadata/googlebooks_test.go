package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		baseURL:     serverURL,
		rateLimiter: newRateLimiter(0),
	}
}

func TestSearchByTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/volumes", r.URL.Path)
		require.Equal(t, "intitle:The Great Gatsby", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{
					"volumeInfo": {
						"title": "The Great Gatsby",
						"authors": ["F. Scott Fitzgerald", "Somebody Else"],
						"imageLinks": {"thumbnail": "http://books.google.com/thumb.jpg"}
					}
				},
				{
					"volumeInfo": {"title": "A Different Book"}
				}
			]
		}`))
	}))
	defer server.Close()

	info, err := newTestClient(server.URL).SearchByTitle(context.Background(), "The Great Gatsby")
	require.NoError(t, err)

	assert.Equal(t, "The Great Gatsby", info.Title)
	assert.Equal(t, "F. Scott Fitzgerald", info.Author, "first author wins")
	assert.Equal(t, "http://books.google.com/thumb.jpg", info.CoverURL)
}

func TestSearchByTitleNoAuthors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"volumeInfo": {"title": "Anonymous Work"}}]}`))
	}))
	defer server.Close()

	info, err := newTestClient(server.URL).SearchByTitle(context.Background(), "Anonymous Work")
	require.NoError(t, err)

	assert.Equal(t, "Unknown", info.Author)
	assert.Empty(t, info.CoverURL)
}

func TestSearchByTitleNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchByTitle(context.Background(), "does not exist")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestSearchByTitleEmptyQuery(t *testing.T) {
	_, err := NewClient().SearchByTitle(context.Background(), "")
	assert.Error(t, err)
}

func TestSearchByTitleServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchByTitle(context.Background(), "anything")
	assert.Error(t, err)
}
