package repository

import (
	"database/sql"

	"github.com/theguesswho/financial-news-platform/internal/model"
)

// FactRepository owns the raw-fact tables. All inserts ride on the schema's
// uniqueness constraints: concurrent pollers never coordinate in memory, the
// database resolves every duplicate.
type FactRepository struct {
	db *sql.DB
}

func NewFactRepository(db *sql.DB) *FactRepository {
	return &FactRepository{db: db}
}

// SaveArticle inserts an article keyed by link. Returns false when the link
// was already stored, which makes re-ingestion of a feed a no-op.
func (r *FactRepository) SaveArticle(article *model.Article) (bool, error) {
	err := r.db.QueryRow(`
		INSERT INTO articles(title, link, source, published_date)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (link) DO NOTHING
		RETURNING id
	`, article.Title, article.Link, article.Source, article.PublishedAt).Scan(&article.ID)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveFiling inserts a filing keyed by its canonical URL. Extraction failures
// arrive with the sentinel text already set; the record is never blocked.
func (r *FactRepository) SaveFiling(filing *model.Filing) (bool, error) {
	text := sql.NullString{String: filing.PrimaryText, Valid: filing.PrimaryText != ""}

	err := r.db.QueryRow(`
		INSERT INTO filings(ticker, form_type, filed_date, filing_url, primary_text)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (filing_url) DO NOTHING
		RETURNING id
	`, filing.Ticker, filing.FormType, filing.FiledDate, filing.FilingURL, text).Scan(&filing.ID)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetFilingByURL returns the stored filing for a canonical URL, or nil.
func (r *FactRepository) GetFilingByURL(filingURL string) (*model.Filing, error) {
	var f model.Filing
	var text sql.NullString
	err := r.db.QueryRow(`
		SELECT id, ticker, form_type, filed_date, filing_url, primary_text, created_at
		FROM filings
		WHERE filing_url = $1
	`, filingURL).Scan(&f.ID, &f.Ticker, &f.FormType, &f.FiledDate, &f.FilingURL, &text, &f.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.PrimaryText = text.String
	return &f, nil
}

// UpsertPrice inserts or merges one observation on (ticker, price_date).
// Replays replace OHLC and fill the optional P/E without ever duplicating a
// row; a replay with a null P/E does not erase a previously stored value.
func (r *FactRepository) UpsertPrice(p *model.PriceObservation) error {
	_, err := r.db.Exec(`
		INSERT INTO eod_prices(ticker, price_date, open_price, high_price, low_price, close_price, volume, pe_ratio)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker, price_date) DO UPDATE SET
			open_price  = EXCLUDED.open_price,
			high_price  = EXCLUDED.high_price,
			low_price   = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume      = EXCLUDED.volume,
			pe_ratio    = COALESCE(EXCLUDED.pe_ratio, eod_prices.pe_ratio)
	`, p.Ticker, p.PriceDate, p.Open, p.High, p.Low, p.Close, p.Volume, p.PERatio)
	return err
}

func (r *FactRepository) SaveIncomeStatement(s *model.IncomeStatement) error {
	_, err := r.db.Exec(`
		INSERT INTO income_statements(ticker, date, period, revenue, cost_of_revenue, gross_profit, gross_profit_ratio, net_income, eps)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (ticker, date, period) DO NOTHING
	`, s.Ticker, s.Date, s.Period, s.Revenue, s.CostOfRevenue, s.GrossProfit, s.GrossProfitRatio, s.NetIncome, s.EPS)
	return err
}

func (r *FactRepository) SaveBalanceSheet(s *model.BalanceSheet) error {
	_, err := r.db.Exec(`
		INSERT INTO balance_sheets(ticker, date, period, total_assets, total_liabilities, total_debt, cash_and_equivalents, total_equity)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker, date, period) DO NOTHING
	`, s.Ticker, s.Date, s.Period, s.TotalAssets, s.TotalLiabilities, s.TotalDebt, s.CashAndEquivalents, s.TotalEquity)
	return err
}

func (r *FactRepository) SaveCashFlowStatement(s *model.CashFlowStatement) error {
	_, err := r.db.Exec(`
		INSERT INTO cash_flow_statements(ticker, date, period, net_cash_from_ops, net_cash_from_investing, net_cash_from_financing, free_cash_flow)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, date, period) DO NOTHING
	`, s.Ticker, s.Date, s.Period, s.NetCashFromOps, s.NetCashFromInvesting, s.NetCashFromFinancing, s.FreeCashFlow)
	return err
}

func (r *FactRepository) SaveRating(rating *model.AnalystRating) error {
	_, err := r.db.Exec(`
		INSERT INTO analyst_ratings(ticker, recommendation)
		VALUES($1, $2)
	`, rating.Ticker, rating.Recommendation)
	return err
}

// RecentPrices returns up to limit observations for a ticker, newest first.
func (r *FactRepository) RecentPrices(ticker string, limit int) ([]model.PriceObservation, error) {
	rows, err := r.db.Query(`
		SELECT id, ticker, price_date, COALESCE(open_price, 0), COALESCE(high_price, 0),
			COALESCE(low_price, 0), COALESCE(close_price, 0), COALESCE(volume, 0), pe_ratio
		FROM eod_prices
		WHERE ticker = $1
		ORDER BY price_date DESC
		LIMIT $2
	`, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []model.PriceObservation
	for rows.Next() {
		var p model.PriceObservation
		err := rows.Scan(&p.ID, &p.Ticker, &p.PriceDate, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.PERatio)
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prices, nil
}

// QuarterlyIncomeStatements returns up to limit quarterly rows, newest first.
func (r *FactRepository) QuarterlyIncomeStatements(ticker string, limit int) ([]model.IncomeStatement, error) {
	rows, err := r.db.Query(`
		SELECT id, ticker, date, period, COALESCE(revenue, 0), COALESCE(cost_of_revenue, 0),
			COALESCE(gross_profit, 0), COALESCE(gross_profit_ratio, 0), COALESCE(net_income, 0), COALESCE(eps, 0)
		FROM income_statements
		WHERE ticker = $1 AND period = $2
		ORDER BY date DESC
		LIMIT $3
	`, ticker, model.PeriodQuarter, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stmts []model.IncomeStatement
	for rows.Next() {
		var s model.IncomeStatement
		err := rows.Scan(&s.ID, &s.Ticker, &s.Date, &s.Period, &s.Revenue, &s.CostOfRevenue,
			&s.GrossProfit, &s.GrossProfitRatio, &s.NetIncome, &s.EPS)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (r *FactRepository) QuarterlyBalanceSheets(ticker string, limit int) ([]model.BalanceSheet, error) {
	rows, err := r.db.Query(`
		SELECT id, ticker, date, period, COALESCE(total_assets, 0), COALESCE(total_liabilities, 0),
			COALESCE(total_debt, 0), COALESCE(cash_and_equivalents, 0), COALESCE(total_equity, 0)
		FROM balance_sheets
		WHERE ticker = $1 AND period = $2
		ORDER BY date DESC
		LIMIT $3
	`, ticker, model.PeriodQuarter, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stmts []model.BalanceSheet
	for rows.Next() {
		var s model.BalanceSheet
		err := rows.Scan(&s.ID, &s.Ticker, &s.Date, &s.Period, &s.TotalAssets, &s.TotalLiabilities,
			&s.TotalDebt, &s.CashAndEquivalents, &s.TotalEquity)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (r *FactRepository) QuarterlyCashFlowStatements(ticker string, limit int) ([]model.CashFlowStatement, error) {
	rows, err := r.db.Query(`
		SELECT id, ticker, date, period, COALESCE(net_cash_from_ops, 0), COALESCE(net_cash_from_investing, 0),
			COALESCE(net_cash_from_financing, 0), COALESCE(free_cash_flow, 0)
		FROM cash_flow_statements
		WHERE ticker = $1 AND period = $2
		ORDER BY date DESC
		LIMIT $3
	`, ticker, model.PeriodQuarter, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stmts []model.CashFlowStatement
	for rows.Next() {
		var s model.CashFlowStatement
		err := rows.Scan(&s.ID, &s.Ticker, &s.Date, &s.Period, &s.NetCashFromOps, &s.NetCashFromInvesting,
			&s.NetCashFromFinancing, &s.FreeCashFlow)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stmts, nil
}

// LatestRating returns the most recent analyst consensus for a ticker, or
// nil when none has been scraped.
func (r *FactRepository) LatestRating(ticker string) (*model.AnalystRating, error) {
	var rating model.AnalystRating
	err := r.db.QueryRow(`
		SELECT id, ticker, COALESCE(recommendation, ''), scraped_at
		FROM analyst_ratings
		WHERE ticker = $1
		ORDER BY scraped_at DESC
		LIMIT 1
	`, ticker).Scan(&rating.ID, &rating.Ticker, &rating.Recommendation, &rating.ScrapedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// SaveError records one failed processing attempt for an event.
func (r *FactRepository) SaveError(sourceURL string, errMsg string, errType string) error {
	_, err := r.db.Exec(`
		INSERT INTO processing_errors(source_url, error_message, error_type)
		VALUES($1, $2, $3)
	`, sourceURL, errMsg, errType)
	return err
}

// GetErrorCount returns how many attempts for this event have failed so far.
func (r *FactRepository) GetErrorCount(sourceURL string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM processing_errors
		WHERE source_url = $1
	`, sourceURL).Scan(&count)
	return count, err
}
