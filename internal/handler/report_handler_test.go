package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/theguesswho/financial-news-platform/internal/model"
)

type fakeStore struct {
	reports []model.Report
	report  *model.Report
	total   int
	err     error
}

func (f *fakeStore) GetReports(limit, offset int) ([]model.Report, error) {
	return f.reports, f.err
}

func (f *fakeStore) GetReportByID(id int64) (*model.Report, error) {
	return f.report, f.err
}

func (f *fakeStore) GetReportTotal() (int, error) {
	return f.total, f.err
}

func newTestRouter(store ReportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(store)
	r.GET("/reports", h.GetReports)
	r.GET("/reports/:id", h.GetReport)
	r.GET("/health", h.GetHealth)
	return r
}

func TestGetReports_ReturnsReports(t *testing.T) {
	store := &fakeStore{
		reports: []model.Report{
			{
				ID:        1,
				SourceURL: "https://example.com/a",
				Ticker:    "AAPL",
				Thesis:    "Shares rose on strong earnings.",
				CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			},
		},
		total: 1,
	}

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports?limit=10&offset=0", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ReportsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, len(res.Reports))
	assert.Equal(t, "AAPL", res.Reports[0].Ticker)
	assert.Equal(t, "2026-08-30T12:00:00Z", res.Reports[0].CreatedAt)
}

func TestGetReports_ClampsLimit(t *testing.T) {
	store := &fakeStore{}

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports?limit=5000", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ReportsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 100, res.Limit)
}

func TestGetReports_DefaultsBadParams(t *testing.T) {
	store := &fakeStore{}

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports?limit=abc&offset=-3", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ReportsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 20, res.Limit)
	assert.Equal(t, 0, res.Offset)
}

func TestGetReports_DatabaseError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetReport_ReturnsReport(t *testing.T) {
	store := &fakeStore{
		report: &model.Report{
			ID:        7,
			SourceURL: "https://example.com/b",
			Ticker:    "MSFT",
			Thesis:    "Guidance raised for the fiscal year.",
			Context: model.ContextSnapshot{
				Ticker:           "MSFT",
				PrimaryNews:      "Microsoft raises guidance",
				ValuationContext: "The stock closed at $410.00 with a P/E ratio of 35.00. The 12-month average P/E is 33.10.",
			},
			CreatedAt: time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC),
		},
	}

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ReportResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(7), res.ID)
	assert.Equal(t, "MSFT", res.Context.Ticker)
}

func TestGetReport_NotFound(t *testing.T) {
	store := &fakeStore{}

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/99", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetReport_InvalidID(t *testing.T) {
	store := &fakeStore{}

	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHealth(t *testing.T) {
	r := newTestRouter(&fakeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetHealth_DatabaseDown(t *testing.T) {
	r := newTestRouter(&fakeStore{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
