package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/theguesswho/financial-news-platform/db"
	"github.com/theguesswho/financial-news-platform/internal/config"
	"github.com/theguesswho/financial-news-platform/internal/event"
	"github.com/theguesswho/financial-news-platform/internal/model"
	"github.com/theguesswho/financial-news-platform/internal/repository"
	"github.com/theguesswho/financial-news-platform/pkg/filings"
	"github.com/theguesswho/financial-news-platform/pkg/market"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(configDir(), "DATABASE_URL", "REDIS_URL", "FMP_API_KEY")
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

	facts := repository.NewFactRepository(conn)
	publisher := event.NewPublisher(queue)
	marketClient := market.NewClient(cfg.FMPAPIKey)
	extractor := filings.NewExtractor(cfg.SECUserAgent)

	ctx := context.Background()

	for _, ticker := range cfg.Tickers {
		refs, err := marketClient.Filings(ctx, ticker)
		if err != nil {
			slog.Error("error fetching filing index", "ticker", ticker, "error", err)
			continue
		}

		var saved, duplicated, skipped int

		for _, ref := range refs {
			if !model.TrackedForms[ref.FormType] {
				skipped++
				continue
			}

			existing, err := facts.GetFilingByURL(ref.FinalLink)
			if err != nil {
				slog.Error("error checking filing", "ticker", ticker, "error", err, "url", ref.FinalLink)
				continue
			}
			if existing != nil {
				duplicated++
				continue
			}

			text, err := extractor.PressRelease(ctx, ref.FinalLink)
			if err != nil {
				if !errors.Is(err, filings.ErrNoExhibit) {
					slog.Warn("error extracting press release", "ticker", ticker, "error", err, "url", ref.FinalLink)
				}
				text = model.FilingTextUnavailable
			}

			filing := model.Filing{
				Ticker:      ticker,
				FormType:    ref.FormType,
				FiledDate:   ref.FiledDate,
				FilingURL:   ref.FinalLink,
				PrimaryText: text,
			}

			inserted, err := facts.SaveFiling(&filing)
			if err != nil {
				slog.Error("error saving filing", "ticker", ticker, "error", err, "url", ref.FinalLink)
				continue
			}

			if !inserted {
				duplicated++
				continue
			}

			saved++

			env := model.Envelope{
				EventType: model.EventSECFiling,
				Ticker:    ticker,
				Form:      ref.FormType,
				URL:       ref.FinalLink,
			}

			if err := publisher.Publish(ctx, env); err != nil {
				slog.Error("error publishing event", "ticker", ticker, "error", err, "url", ref.FinalLink)
			}
		}

		slog.Info("filing poll complete", "ticker", ticker, "saved", saved, "duplicated", duplicated, "skipped", skipped)
	}
}

func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}
