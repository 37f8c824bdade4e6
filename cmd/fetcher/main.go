package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/theguesswho/financial-news-platform/db"
	"github.com/theguesswho/financial-news-platform/internal/config"
	"github.com/theguesswho/financial-news-platform/internal/event"
	"github.com/theguesswho/financial-news-platform/internal/model"
	"github.com/theguesswho/financial-news-platform/internal/repository"
	"github.com/theguesswho/financial-news-platform/internal/resolver"
	"github.com/theguesswho/financial-news-platform/pkg/llm"
	"github.com/theguesswho/financial-news-platform/pkg/news"
)

const fetchLimit = 50

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(configDir(), "DATABASE_URL", "REDIS_URL")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	queue, err := db.NewQueue(cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer queue.Close()

	clients := []news.NewsClient{news.NewRSSClient(news.DefaultFeeds)}
	if cfg.FinnhubAPIKey != "" {
		clients = append(clients, news.NewFinnHubClient(cfg.FinnhubAPIKey))
	}

	entityResolver := resolver.New(cfg.Directory, newLLMClient(cfg))

	facts := repository.NewFactRepository(conn)
	publisher := event.NewPublisher(queue)

	ctx := context.Background()

	for _, client := range clients {
		source := client.Name()

		fetched, err := client.Fetch(fetchLimit)
		if err != nil {
			slog.Error("error fetching headlines", "source", source, "error", err)
			continue
		}

		var saved, duplicated, published, errors int

		for _, a := range fetched {
			article := model.Article{
				Title:       a.Headline,
				Link:        a.Link,
				Source:      a.Source,
				PublishedAt: a.PublishedAt,
			}

			inserted, err := facts.SaveArticle(&article)
			if err != nil {
				slog.Error("error saving article", "source", source, "error", err)
				errors++
				continue
			}

			if !inserted {
				duplicated++
				continue
			}

			saved++

			ticker, ok := entityResolver.Resolve(ctx, a.Headline)
			if !ok {
				continue
			}

			env := model.Envelope{
				EventType: model.EventSignificantNews,
				Ticker:    ticker,
				Headline:  a.Headline,
				URL:       a.Link,
			}

			if err := publisher.Publish(ctx, env); err != nil {
				slog.Error("error publishing event", "source", source, "error", err, "url", a.Link)
				errors++
				continue
			}

			published++
		}

		slog.Info("fetch complete", "source", source, "saved", saved, "duplicated", duplicated, "published", published, "errors", errors)
	}
}

func newLLMClient(cfg *config.Config) llm.Client {
	switch {
	case cfg.AnthropicAPIKey != "":
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	default:
		log.Fatal("no LLM API key configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")
		return nil
	}
}

func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}
