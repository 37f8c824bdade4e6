package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/theguesswho/financial-news-platform/db"
	"github.com/theguesswho/financial-news-platform/internal/config"
	"github.com/theguesswho/financial-news-platform/internal/event"
	"github.com/theguesswho/financial-news-platform/internal/model"
	"github.com/theguesswho/financial-news-platform/internal/repository"
	"github.com/theguesswho/financial-news-platform/pkg/market"
)

const (
	priceDays    = 252
	quarterCount = 8
)

func main() {

	analyze := flag.Bool("analyze", false, "publish a scheduled analysis event per ticker after the refresh")
	flag.Parse()

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(configDir(), "DATABASE_URL", "FMP_API_KEY")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	var publisher *event.Publisher
	if *analyze {
		queue, err := db.NewQueue(cfg.RedisURL)
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer queue.Close()
		publisher = event.NewPublisher(queue)
	}

	facts := repository.NewFactRepository(conn)
	marketClient := market.NewClient(cfg.FMPAPIKey)

	ctx := context.Background()

	for _, ticker := range cfg.Tickers {
		refreshTicker(ctx, facts, marketClient, ticker)

		if publisher == nil {
			continue
		}

		env := model.Envelope{
			EventType: model.EventScheduled,
			Ticker:    ticker,
		}
		if err := publisher.Publish(ctx, env); err != nil {
			slog.Error("error publishing scheduled event", "ticker", ticker, "error", err)
		}
	}
}

func refreshTicker(ctx context.Context, facts *repository.FactRepository, client *market.Client, ticker string) {
	bars, err := client.HistoricalPrices(ctx, ticker, priceDays)
	if err != nil {
		slog.Error("error fetching prices", "ticker", ticker, "error", err)
	}

	var priceErrors int
	for _, bar := range bars {
		p := model.PriceObservation{
			Ticker:    ticker,
			PriceDate: bar.Date,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume,
			PERatio:   bar.PE,
		}
		if err := facts.UpsertPrice(&p); err != nil {
			slog.Error("error saving price", "ticker", ticker, "error", err)
			priceErrors++
		}
	}

	rows, err := client.QuarterlyStatements(ctx, ticker, quarterCount)
	if err != nil {
		slog.Error("error fetching statements", "ticker", ticker, "error", err)
	}

	var statementErrors int
	for _, row := range rows {
		income := model.IncomeStatement{
			Ticker:           ticker,
			Date:             row.Date,
			Period:           row.Period,
			Revenue:          row.Revenue,
			CostOfRevenue:    row.CostOfRevenue,
			GrossProfit:      row.GrossProfit,
			GrossProfitRatio: row.GrossProfitRatio,
			NetIncome:        row.NetIncome,
			EPS:              row.EPS,
		}
		if err := facts.SaveIncomeStatement(&income); err != nil {
			slog.Error("error saving income statement", "ticker", ticker, "error", err)
			statementErrors++
		}

		balance := model.BalanceSheet{
			Ticker:             ticker,
			Date:               row.Date,
			Period:             row.Period,
			TotalAssets:        row.TotalAssets,
			TotalLiabilities:   row.TotalLiabilities,
			TotalDebt:          row.TotalDebt,
			CashAndEquivalents: row.CashAndEquivalents,
			TotalEquity:        row.TotalEquity,
		}
		if err := facts.SaveBalanceSheet(&balance); err != nil {
			slog.Error("error saving balance sheet", "ticker", ticker, "error", err)
			statementErrors++
		}

		cashFlow := model.CashFlowStatement{
			Ticker:               ticker,
			Date:                 row.Date,
			Period:               row.Period,
			NetCashFromOps:       row.NetCashFromOps,
			NetCashFromInvesting: row.NetCashFromInvesting,
			NetCashFromFinancing: row.NetCashFromFinancing,
			FreeCashFlow:         row.FreeCashFlow,
		}
		if err := facts.SaveCashFlowStatement(&cashFlow); err != nil {
			slog.Error("error saving cash flow statement", "ticker", ticker, "error", err)
			statementErrors++
		}
	}

	recommendation, err := client.AnalystRecommendation(ctx, ticker)
	if err != nil {
		slog.Error("error fetching analyst recommendation", "ticker", ticker, "error", err)
	} else if recommendation != "" {
		rating := model.AnalystRating{Ticker: ticker, Recommendation: recommendation}
		if err := facts.SaveRating(&rating); err != nil {
			slog.Error("error saving rating", "ticker", ticker, "error", err)
		}
	}

	slog.Info("market data refreshed", "ticker", ticker, "prices", len(bars), "quarters", len(rows), "price_errors", priceErrors, "statement_errors", statementErrors)
}

func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}
