package news

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
)

const rssUserAgent = "Mozilla/5.0 (compatible; FinancialNewsPlatform/1.0)"

// DefaultFeeds are the curated business-news feeds polled when no custom set
// is supplied.
var DefaultFeeds = map[string]string{
	"MarketWatch Top Stories":       "http://www.marketwatch.com/rss/topstories",
	"Seeking Alpha Market Currents": "https://seekingalpha.com/market_currents.xml",
	"Zacks Press Releases":          "https://scr.zacks.com/distribution/rss-feeds/default.aspx",
	"BBC News Business":             "http://feeds.bbci.co.uk/news/business/rss.xml",
	"CNBC Top News":                 "https://www.cnbc.com/id/100003114/device/rss/rss.html",
}

// RSSClient aggregates a fixed set of RSS feeds into one article stream.
type RSSClient struct {
	feeds      map[string]string
	parser     *gofeed.Parser
	timeout    time.Duration
	maxRetries int
}

func NewRSSClient(feeds map[string]string) *RSSClient {
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 20 * time.Second}
	parser.UserAgent = rssUserAgent

	return &RSSClient{
		feeds:      feeds,
		parser:     parser,
		timeout:    20 * time.Second,
		maxRetries: 3,
	}
}

func (c *RSSClient) Name() string {
	return "RSS"
}

// Fetch polls every configured feed. A feed that keeps failing after bounded
// retries is skipped and logged; the remaining feeds still contribute.
func (c *RSSClient) Fetch(limit int) ([]Article, error) {
	sources := make([]string, 0, len(c.feeds))
	for source := range c.feeds {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var articles []Article
	for _, source := range sources {
		feedArticles, err := c.fetchFeed(source, c.feeds[source])
		if err != nil {
			slog.Warn("skipping feed after repeated failures", "feed", source, "error", err)
			continue
		}
		articles = append(articles, feedArticles...)
	}

	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func (c *RSSClient) fetchFeed(source, url string) ([]Article, error) {
	var feed *gofeed.Feed
	var err error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		feed, err = c.parser.ParseURLWithContext(url, ctx)
		cancel()
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		articles = append(articles, Article{
			Headline:    item.Title,
			Link:        item.Link,
			Source:      source,
			PublishedAt: published,
		})
	}

	return articles, nil
}
