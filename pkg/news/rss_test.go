package news

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Business News</title>
    <item>
      <title>Acme Corp beats earnings</title>
      <link>https://example.com/acme-earnings</link>
      <pubDate>Mon, 02 Jan 2024 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Item without a link is skipped</title>
      <link></link>
    </item>
  </channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	client := NewRSSClient(map[string]string{"Test Feed": srv.URL})

	articles, err := client.Fetch(0)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
	assert.Equal(t, "Acme Corp beats earnings", articles[0].Headline)
	assert.Equal(t, "https://example.com/acme-earnings", articles[0].Link)
	assert.Equal(t, "Test Feed", articles[0].Source)
	assert.Equal(t, 2024, articles[0].PublishedAt.Year())
}

func TestRSSFetchSkipsBrokenFeed(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedXML))
	}))
	defer working.Close()

	client := NewRSSClient(map[string]string{
		"Broken Feed":  broken.URL,
		"Working Feed": working.URL,
	})
	client.maxRetries = 1

	articles, err := client.Fetch(0)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
	assert.Equal(t, "Working Feed", articles[0].Source)
}

func TestRSSFetchLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	client := NewRSSClient(map[string]string{
		"Feed A": srv.URL,
		"Feed B": srv.URL,
	})

	articles, err := client.Fetch(1)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
	assert.NotEqual(t, time.Time{}, articles[0].PublishedAt)
}
