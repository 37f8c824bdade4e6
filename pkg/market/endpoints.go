package market

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// PriceBar is one end-of-day bar from the historical price endpoint. PE is
// nil when the provider omits it.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	PE     *float64
}

// StatementRow is one quarter of as-reported financials. A single provider
// row carries the income, balance-sheet, and cash-flow line items together.
type StatementRow struct {
	Date             time.Time
	Period           string
	Revenue          int64
	CostOfRevenue    int64
	GrossProfit      int64
	GrossProfitRatio float64
	NetIncome        int64
	EPS              float64

	TotalAssets        int64
	TotalLiabilities   int64
	TotalDebt          int64
	CashAndEquivalents int64
	TotalEquity        int64

	NetCashFromOps       int64
	NetCashFromInvesting int64
	NetCashFromFinancing int64
	FreeCashFlow         int64
}

// FilingRef is one entry from the filing index: enough to dedup, classify,
// and fetch the document.
type FilingRef struct {
	FormType  string
	FiledDate time.Time
	FinalLink string
}

// HistoricalPrices returns up to days of EOD bars for a ticker, newest first.
func (c *Client) HistoricalPrices(ctx context.Context, ticker string, days int) ([]PriceBar, error) {
	params := url.Values{}
	params.Set("timeseries", strconv.Itoa(days))

	var raw historicalResponse
	if err := c.get(ctx, "/historical-price-full/"+url.PathEscape(ticker), params, &raw); err != nil {
		return nil, fmt.Errorf("historical prices for %s: %w", ticker, err)
	}

	bars := make([]PriceBar, 0, len(raw.Historical))
	for _, row := range raw.Historical {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		bars = append(bars, PriceBar{
			Date:   date,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
			PE:     row.PE,
		})
	}
	return bars, nil
}

// QuarterlyStatements returns up to limit quarters of as-reported financials.
func (c *Client) QuarterlyStatements(ctx context.Context, ticker string, limit int) ([]StatementRow, error) {
	params := url.Values{}
	params.Set("period", "quarter")
	params.Set("limit", strconv.Itoa(limit))

	var raw []statementJSON
	if err := c.get(ctx, "/financial-statement-full-as-reported/"+url.PathEscape(ticker), params, &raw); err != nil {
		return nil, fmt.Errorf("financial statements for %s: %w", ticker, err)
	}

	rows := make([]StatementRow, 0, len(raw))
	for _, item := range raw {
		date, err := time.Parse("2006-01-02", item.Date)
		if err != nil {
			continue
		}
		rows = append(rows, StatementRow{
			Date:                 date,
			Period:               "quarter",
			Revenue:              item.Revenue,
			CostOfRevenue:        item.CostOfRevenue,
			GrossProfit:          item.GrossProfit,
			GrossProfitRatio:     item.GrossProfitRatio,
			NetIncome:            item.NetIncome,
			EPS:                  item.EPS,
			TotalAssets:          item.TotalAssets,
			TotalLiabilities:     item.TotalLiabilities,
			TotalDebt:            item.TotalDebt,
			CashAndEquivalents:   item.CashAndEquivalents,
			TotalEquity:          item.TotalEquity,
			NetCashFromOps:       item.NetCashFromOps,
			NetCashFromInvesting: item.NetCashFromInvesting,
			NetCashFromFinancing: item.NetCashFromFinancing,
			FreeCashFlow:         item.FreeCashFlow,
		})
	}
	return rows, nil
}

// Filings returns the recent filing index for a ticker, newest first. Rows
// missing a final link or a parseable date are skipped, never retried.
func (c *Client) Filings(ctx context.Context, ticker string) ([]FilingRef, error) {
	params := url.Values{}
	params.Set("page", "0")

	var raw []filingJSON
	if err := c.get(ctx, "/sec_filings/"+url.PathEscape(ticker), params, &raw); err != nil {
		return nil, fmt.Errorf("filings for %s: %w", ticker, err)
	}

	refs := make([]FilingRef, 0, len(raw))
	for _, item := range raw {
		if item.FinalLink == "" {
			continue
		}
		filed, err := time.Parse("2006-01-02 15:04:05", item.FillingDate)
		if err != nil {
			if filed, err = time.Parse("2006-01-02", item.FillingDate); err != nil {
				continue
			}
		}
		refs = append(refs, FilingRef{
			FormType:  item.Type,
			FiledDate: filed,
			FinalLink: item.FinalLink,
		})
	}
	return refs, nil
}

// AnalystRecommendation returns the latest consensus rating for a ticker, or
// "" when the provider has none.
func (c *Client) AnalystRecommendation(ctx context.Context, ticker string) (string, error) {
	var raw []recommendationJSON
	if err := c.get(ctx, "/analyst-recommendations/"+url.PathEscape(ticker), nil, &raw); err != nil {
		return "", fmt.Errorf("analyst recommendation for %s: %w", ticker, err)
	}

	if len(raw) == 0 {
		return "", nil
	}
	return raw[0].Rating, nil
}

type historicalResponse struct {
	Symbol     string          `json:"symbol"`
	Historical []historicalRow `json:"historical"`
}

type historicalRow struct {
	Date   string   `json:"date"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	Volume int64    `json:"volume"`
	PE     *float64 `json:"pe"`
}

type statementJSON struct {
	Date               string  `json:"date"`
	Revenue            int64   `json:"revenue"`
	CostOfRevenue      int64   `json:"costofrevenue"`
	GrossProfit        int64   `json:"grossprofit"`
	GrossProfitRatio   float64 `json:"grossprofitratio"`
	NetIncome          int64   `json:"netincome"`
	EPS                float64 `json:"eps"`
	TotalAssets        int64   `json:"totalassets"`
	TotalLiabilities   int64   `json:"totalliabilities"`
	TotalDebt          int64   `json:"totaldebt"`
	CashAndEquivalents int64   `json:"cashandcashequivalents"`
	TotalEquity        int64   `json:"totalstockholdersequity"`

	NetCashFromOps       int64 `json:"netcashprovidedbyoperatingactivities"`
	NetCashFromInvesting int64 `json:"netcashusedforinvestingactivities"`
	NetCashFromFinancing int64 `json:"netcashusedprovidedbyfinancingactivities"`
	FreeCashFlow         int64 `json:"freecashflow"`
}

type filingJSON struct {
	Symbol      string `json:"symbol"`
	Type        string `json:"type"`
	Link        string `json:"link"`
	FinalLink   string `json:"finalLink"`
	FillingDate string `json:"fillingDate"`
}

type recommendationJSON struct {
	Rating string `json:"rating"`
}
