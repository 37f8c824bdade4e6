package briefing

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/theguesswho/financial-news-platform/internal/model"
)

type fakeFacts struct {
	prices    []model.PriceObservation
	income    []model.IncomeStatement
	balance   []model.BalanceSheet
	cashFlows []model.CashFlowStatement
	rating    *model.AnalystRating
	err       error
}

func (f *fakeFacts) RecentPrices(ticker string, limit int) ([]model.PriceObservation, error) {
	return f.prices, f.err
}

func (f *fakeFacts) QuarterlyIncomeStatements(ticker string, limit int) ([]model.IncomeStatement, error) {
	return f.income, f.err
}

func (f *fakeFacts) QuarterlyBalanceSheets(ticker string, limit int) ([]model.BalanceSheet, error) {
	return f.balance, f.err
}

func (f *fakeFacts) QuarterlyCashFlowStatements(ticker string, limit int) ([]model.CashFlowStatement, error) {
	return f.cashFlows, f.err
}

func (f *fakeFacts) LatestRating(ticker string) (*model.AnalystRating, error) {
	return f.rating, f.err
}

func pe(v float64) *float64 { return &v }

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestAssembleNoPriceData(t *testing.T) {
	a := NewAssembler(&fakeFacts{})

	snapshot, err := a.Assemble("ACME", "Acme Corp beats earnings")

	assert.Equal(t, nil, err)
	assert.Equal(t, model.NoPriceData, snapshot.ValuationContext)
	assert.Equal(t, "ACME", snapshot.Ticker)
	assert.Equal(t, 0, len(snapshot.FinancialSnapshot.Revenue))
}

func TestAssembleValuationContext(t *testing.T) {
	a := NewAssembler(&fakeFacts{
		prices: []model.PriceObservation{
			{PriceDate: day("2024-01-02"), Close: 50.00, PERatio: pe(18)},
			{PriceDate: day("2024-01-01"), Close: 49.00, PERatio: pe(16)},
		},
	})

	snapshot, err := a.Assemble("ACME", "headline")

	assert.Equal(t, nil, err)
	assert.Equal(t, "The stock closed at $50.00 with a P/E ratio of 18.00. The 12-month average P/E is 17.00.", snapshot.ValuationContext)
}

func TestAverageExcludesNonPositiveAndNullPE(t *testing.T) {
	a := NewAssembler(&fakeFacts{
		prices: []model.PriceObservation{
			{PriceDate: day("2024-01-04"), Close: 50, PERatio: pe(10)},
			{PriceDate: day("2024-01-03"), Close: 49, PERatio: pe(-5)},
			{PriceDate: day("2024-01-02"), Close: 48, PERatio: nil},
			{PriceDate: day("2024-01-01"), Close: 47, PERatio: pe(20)},
		},
	})

	snapshot, err := a.Assemble("ACME", "headline")

	assert.Equal(t, nil, err)
	if !strings.Contains(snapshot.ValuationContext, "average P/E is 15.00") {
		t.Errorf("wrong average in %q", snapshot.ValuationContext)
	}
}

func TestAssembleFinancialTrendsChronological(t *testing.T) {
	a := NewAssembler(&fakeFacts{
		income: []model.IncomeStatement{
			{Date: day("2024-03-31"), Revenue: 2_500_000, NetIncome: 500_000, GrossProfitRatio: 0.42},
			{Date: day("2023-12-31"), Revenue: 2_000_000, NetIncome: 400_000, GrossProfitRatio: 0.40},
		},
		balance: []model.BalanceSheet{
			{Date: day("2024-03-31"), TotalDebt: 10_000_000},
		},
		cashFlows: []model.CashFlowStatement{
			{Date: day("2024-03-31"), FreeCashFlow: 750_000},
		},
	})

	snapshot, err := a.Assemble("ACME", "headline")

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"2023-12-31: $2.00M", "2024-03-31: $2.50M"}, snapshot.FinancialSnapshot.Revenue)
	assert.Equal(t, []string{"2023-12-31: $0.40M", "2024-03-31: $0.50M"}, snapshot.FinancialSnapshot.NetIncome)
	assert.Equal(t, []string{"2023-12-31: 40.00%", "2024-03-31: 42.00%"}, snapshot.FinancialSnapshot.GrossProfitRatio)
	assert.Equal(t, []string{"2024-03-31: $10.00M"}, snapshot.FinancialSnapshot.TotalDebt)
	assert.Equal(t, []string{"2024-03-31: $0.75M"}, snapshot.FinancialSnapshot.FreeCashFlow)
}

func TestAssembleAnalystConsensus(t *testing.T) {
	a := NewAssembler(&fakeFacts{
		rating: &model.AnalystRating{Ticker: "ACME", Recommendation: "Buy"},
	})

	snapshot, err := a.Assemble("ACME", "headline")

	assert.Equal(t, nil, err)
	assert.Equal(t, "Analyst consensus: Buy.", snapshot.AnalystConsensus)
}

func TestAssembleStoreError(t *testing.T) {
	a := NewAssembler(&fakeFacts{err: errors.New("db down")})

	_, err := a.Assemble("ACME", "headline")

	assert.NotEqual(t, nil, err)
}
