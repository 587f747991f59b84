package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <link>https://news.example.com</link>
    <item>
      <title>First   Story
        Title</title>
      <link>https://news.example.com/1</link>
      <description>Something happened.</description>
      <guid>guid-1</guid>
      <pubDate>Mon, 02 Jun 2025 09:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Second Story</title>
      <link>https://news.example.com/2</link>
    </item>
    <item>
      <title></title>
      <link>https://news.example.com/untitled</link>
    </item>
    <item>
      <title>No Link Story</title>
    </item>
  </channel>
</rss>`

func TestFetchParsesFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "newsagent/1.0", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "application/rss+xml")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	items, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	// Entries without a title or link are dropped.
	require.Len(t, items, 2)

	assert.Equal(t, "First Story Title", items[0].Title, "whitespace runs collapse to single spaces")
	assert.Equal(t, "https://news.example.com/1", items[0].Link)
	assert.Equal(t, "Something happened.", items[0].Description)
	assert.Equal(t, "guid-1", items[0].GUID)
	require.NotNil(t, items[0].PublishedAt)
	assert.Equal(t, 2025, items[0].PublishedAt.Year())

	assert.Equal(t, "Second Story", items[1].Title)
	assert.Nil(t, items[1].PublishedAt)
}

func TestFetchHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ErrorKindHTTPStatus, fetchErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.Status)
	assert.True(t, fetchErr.Retryable(), "5xx responses are retryable")
}

func TestFetchClientErrorNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ErrorKindHTTPStatus, fetchErr.Kind)
	assert.False(t, fetchErr.Retryable(), "4xx responses are terminal for the source")
}

func TestFetchParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a feed document"))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ErrorKindParse, fetchErr.Kind)
	assert.False(t, fetchErr.Retryable())
}

func TestFetchNetworkError(t *testing.T) {
	// A server that is already closed refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := NewFetcher(2 * time.Second)
	_, err := fetcher.Fetch(context.Background(), url)
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ErrorKindNetwork, fetchErr.Kind)
	assert.True(t, fetchErr.Retryable())
}
