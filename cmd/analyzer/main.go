package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/theguesswho/financial-news-platform/db"
	"github.com/theguesswho/financial-news-platform/internal/briefing"
	"github.com/theguesswho/financial-news-platform/internal/config"
	"github.com/theguesswho/financial-news-platform/internal/repository"
	"github.com/theguesswho/financial-news-platform/internal/worker"
	"github.com/theguesswho/financial-news-platform/pkg/llm"
)

const (
	popTimeout = 30 * time.Second
	retryDelay = 5 * time.Second
)

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

	facts := repository.NewFactRepository(conn)
	reports := repository.NewReportRepository(conn)
	assembler := briefing.NewAssembler(facts)
	analyzer := worker.NewAnalyzer(assembler, newLLMClient(cfg), reports, facts)

	ctx := context.Background()

	for {
		raw, err := queue.Pop(ctx, db.AnalysisQueueKey, popTimeout)
		if err != nil {
			if errors.Is(err, db.ErrQueueEmpty) {
				continue
			}
			slog.Error("error popping from queue", "error", err)
			break
		}

		outcome, err := analyzer.Process(ctx, raw)

		switch outcome {
		case worker.OutcomePersisted:
			slog.Info("report persisted")
		case worker.OutcomeDuplicate:
			slog.Info("duplicate delivery skipped")
		case worker.OutcomeDropped:
			slog.Warn("message dropped", "error", err)
		case worker.OutcomeFailed:
			slog.Error("processing failed, requeueing", "error", err)
			if pushErr := queue.Push(ctx, db.AnalysisQueueKey, raw); pushErr != nil {
				slog.Error("error requeueing message", "error", pushErr)
			}
			time.Sleep(retryDelay)
		case worker.OutcomeExhausted:
			slog.Warn("retries exhausted, dead-lettering", "error", err)
			if pushErr := queue.Push(ctx, db.DeadLetterKey, raw); pushErr != nil {
				slog.Error("error dead-lettering message", "error", pushErr)
			}
		}
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
