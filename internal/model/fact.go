package model

import "time"

const (
	PeriodQuarter = "quarter"
	PeriodAnnual  = "annual"

	// FilingTextUnavailable is stored when the press-release exhibit of a
	// filing could not be extracted. The filing record itself is still saved.
	FilingTextUnavailable = "press release text could not be extracted"
)

// TrackedForms are the filing form types the system ingests. Anything else
// returned by the filing index is skipped.
var TrackedForms = map[string]bool{
	"8-K":  true,
	"10-K": true,
	"10-Q": true,
	"6-K":  true,
}

type Article struct {
	ID          int64
	Title       string
	Link        string
	Source      string
	PublishedAt time.Time
	CreatedAt   time.Time
}

type Filing struct {
	ID          int64
	Ticker      string
	FormType    string
	FiledDate   time.Time
	FilingURL   string
	PrimaryText string
	CreatedAt   time.Time
}

// PriceObservation is one end-of-day price row. PERatio is a pointer because
// the provider omits it for many tickers; nil is "unknown", never zero.
type PriceObservation struct {
	ID        int64
	Ticker    string
	PriceDate time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	PERatio   *float64
}

type IncomeStatement struct {
	ID               int64
	Ticker           string
	Date             time.Time
	Period           string
	Revenue          int64
	CostOfRevenue    int64
	GrossProfit      int64
	GrossProfitRatio float64
	NetIncome        int64
	EPS              float64
}

type BalanceSheet struct {
	ID                 int64
	Ticker             string
	Date               time.Time
	Period             string
	TotalAssets        int64
	TotalLiabilities   int64
	TotalDebt          int64
	CashAndEquivalents int64
	TotalEquity        int64
}

type CashFlowStatement struct {
	ID                   int64
	Ticker               string
	Date                 time.Time
	Period               string
	NetCashFromOps       int64
	NetCashFromInvesting int64
	NetCashFromFinancing int64
	FreeCashFlow         int64
}

type AnalystRating struct {
	ID             int64
	Ticker         string
	Recommendation string
	ScrapedAt      time.Time
}
