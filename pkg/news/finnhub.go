package news

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// FinnHubClient pulls general market news as a second headline source
// alongside the RSS feeds.
type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

func (c *FinnHubClient) Fetch(limit int) ([]Article, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, _, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, err
	}

	var articles []Article
	for _, item := range res {
		if item.Url == nil || *item.Url == "" {
			continue
		}

		a := Article{
			Link:   *item.Url,
			Source: c.Name(),
		}
		if item.Headline != nil {
			a.Headline = *item.Headline
		}
		if item.Datetime != nil {
			a.PublishedAt = time.Unix(*item.Datetime, 0)
		}

		articles = append(articles, a)
		if limit > 0 && len(articles) >= limit {
			break
		}
	}

	return articles, nil
}
