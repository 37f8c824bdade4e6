package model

import "time"

// NoPriceData is the valuation context used when a ticker has no stored
// price observations. Assembly degrades to this string, it never errors.
const NoPriceData = "No EOD price data available."

// FinancialTrends holds per-line-item quarterly histories in chronological
// order, each entry already rendered as "YYYY-MM-DD: $X.XXM".
type FinancialTrends struct {
	Revenue          []string `json:"revenue"`
	NetIncome        []string `json:"net_income"`
	GrossProfitRatio []string `json:"gross_profit_ratio"`
	TotalDebt        []string `json:"total_debt"`
	FreeCashFlow     []string `json:"free_cash_flow"`
}

// ContextSnapshot is the bounded read of market history assembled for one
// synthesis call. It is stored verbatim on the report.
type ContextSnapshot struct {
	Ticker            string          `json:"ticker"`
	PrimaryNews       string          `json:"primary_news"`
	ValuationContext  string          `json:"valuation_context"`
	AnalystConsensus  string          `json:"analyst_consensus,omitempty"`
	FinancialSnapshot FinancialTrends `json:"financial_snapshot"`
}

// Report is the durable output of the analysis pipeline. SourceURL is the
// idempotency key: at most one report ever exists per distinct value.
type Report struct {
	ID        int64
	SourceURL string
	Ticker    string
	Thesis    string
	Context   ContextSnapshot
	CreatedAt time.Time
}
