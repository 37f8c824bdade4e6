package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/theguesswho/financial-news-platform/internal/model"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CreateIfAbsent stores a report keyed by source URL. This is the idempotency
// boundary of the whole pipeline: the insert is guarded by the unique
// constraint, not by a prior existence check, so two concurrent deliveries of
// the same event cannot both insert. Returns false when the report already
// existed, which callers treat as success.
func (r *ReportRepository) CreateIfAbsent(report *model.Report) (bool, error) {
	contextJSON, err := json.Marshal(report.Context)
	if err != nil {
		return false, err
	}

	err = r.db.QueryRow(`
		INSERT INTO reports(source_url, ticker, thesis, context)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (source_url) DO NOTHING
		RETURNING id
	`, report.SourceURL, report.Ticker, report.Thesis, contextJSON).Scan(&report.ID)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetReports returns stored reports, newest first.
func (r *ReportRepository) GetReports(limit, offset int) ([]model.Report, error) {
	rows, err := r.db.Query(`
		SELECT id, source_url, ticker, thesis, context, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *ReportRepository) GetReportByID(id int64) (*model.Report, error) {
	row := r.db.QueryRow(`
		SELECT id, source_url, ticker, thesis, context, created_at
		FROM reports
		WHERE id = $1
	`, id)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *ReportRepository) GetReportTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM reports
	`).Scan(&total)
	return total, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*model.Report, error) {
	var report model.Report
	var contextJSON []byte
	err := row.Scan(&report.ID, &report.SourceURL, &report.Ticker, &report.Thesis, &contextJSON, &report.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(contextJSON) > 0 {
		if err := json.Unmarshal(contextJSON, &report.Context); err != nil {
			return nil, err
		}
	}

	return &report, nil
}
