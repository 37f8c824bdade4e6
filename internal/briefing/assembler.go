// Package briefing builds the bounded market-history snapshot joined to each
// analysis event. Assembly is a pure read of the fact store.
package briefing

import (
	"fmt"

	"github.com/theguesswho/financial-news-platform/internal/model"
)

const (
	// priceLookback is roughly one trading year of observations.
	priceLookback = 252

	// quarterLookback bounds each statement trend to two fiscal years.
	quarterLookback = 8
)

// FactReader is the read-only slice of the fact store assembly needs.
type FactReader interface {
	RecentPrices(ticker string, limit int) ([]model.PriceObservation, error)
	QuarterlyIncomeStatements(ticker string, limit int) ([]model.IncomeStatement, error)
	QuarterlyBalanceSheets(ticker string, limit int) ([]model.BalanceSheet, error)
	QuarterlyCashFlowStatements(ticker string, limit int) ([]model.CashFlowStatement, error)
	LatestRating(ticker string) (*model.AnalystRating, error)
}

type Assembler struct {
	facts FactReader
}

func NewAssembler(facts FactReader) *Assembler {
	return &Assembler{facts: facts}
}

// Assemble builds the context snapshot for one event. Missing data degrades
// to sentinels and empty trend lists; only fact-store failures return an
// error.
func (a *Assembler) Assemble(ticker, primaryText string) (model.ContextSnapshot, error) {
	snapshot := model.ContextSnapshot{
		Ticker:      ticker,
		PrimaryNews: primaryText,
	}

	prices, err := a.facts.RecentPrices(ticker, priceLookback)
	if err != nil {
		return snapshot, fmt.Errorf("read prices: %w", err)
	}
	snapshot.ValuationContext = valuationContext(prices)

	income, err := a.facts.QuarterlyIncomeStatements(ticker, quarterLookback)
	if err != nil {
		return snapshot, fmt.Errorf("read income statements: %w", err)
	}
	for _, stmt := range reversed(income) {
		date := stmt.Date.Format("2006-01-02")
		snapshot.FinancialSnapshot.Revenue = append(snapshot.FinancialSnapshot.Revenue,
			fmt.Sprintf("%s: %s", date, millions(stmt.Revenue)))
		snapshot.FinancialSnapshot.NetIncome = append(snapshot.FinancialSnapshot.NetIncome,
			fmt.Sprintf("%s: %s", date, millions(stmt.NetIncome)))
		snapshot.FinancialSnapshot.GrossProfitRatio = append(snapshot.FinancialSnapshot.GrossProfitRatio,
			fmt.Sprintf("%s: %.2f%%", date, stmt.GrossProfitRatio*100))
	}

	balance, err := a.facts.QuarterlyBalanceSheets(ticker, quarterLookback)
	if err != nil {
		return snapshot, fmt.Errorf("read balance sheets: %w", err)
	}
	for _, stmt := range reversed(balance) {
		snapshot.FinancialSnapshot.TotalDebt = append(snapshot.FinancialSnapshot.TotalDebt,
			fmt.Sprintf("%s: %s", stmt.Date.Format("2006-01-02"), millions(stmt.TotalDebt)))
	}

	cashFlows, err := a.facts.QuarterlyCashFlowStatements(ticker, quarterLookback)
	if err != nil {
		return snapshot, fmt.Errorf("read cash flow statements: %w", err)
	}
	for _, stmt := range reversed(cashFlows) {
		snapshot.FinancialSnapshot.FreeCashFlow = append(snapshot.FinancialSnapshot.FreeCashFlow,
			fmt.Sprintf("%s: %s", stmt.Date.Format("2006-01-02"), millions(stmt.FreeCashFlow)))
	}

	rating, err := a.facts.LatestRating(ticker)
	if err != nil {
		return snapshot, fmt.Errorf("read analyst rating: %w", err)
	}
	if rating != nil && rating.Recommendation != "" {
		snapshot.AnalystConsensus = fmt.Sprintf("Analyst consensus: %s.", rating.Recommendation)
	}

	return snapshot, nil
}

// valuationContext renders latest close and P/E plus the average P/E over
// observations with a positive ratio. Null and non-positive ratios are
// excluded from the average, not treated as zero.
func valuationContext(prices []model.PriceObservation) string {
	if len(prices) == 0 {
		return model.NoPriceData
	}

	latest := prices[0]

	var sum float64
	var count int
	for _, p := range prices {
		if p.PERatio != nil && *p.PERatio > 0 {
			sum += *p.PERatio
			count++
		}
	}
	var avgPE float64
	if count > 0 {
		avgPE = sum / float64(count)
	}

	latestPE := 0.0
	if latest.PERatio != nil {
		latestPE = *latest.PERatio
	}

	return fmt.Sprintf("The stock closed at $%.2f with a P/E ratio of %.2f. The 12-month average P/E is %.2f.",
		latest.Close, latestPE, avgPE)
}

// millions renders a raw line item as a "$X.XXM" string.
func millions(v int64) string {
	return fmt.Sprintf("$%.2fM", float64(v)/1_000_000)
}

// reversed returns statements in chronological order; the store hands them
// back newest first.
func reversed[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}
