package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/theguesswho/financial-news-platform/internal/model"
)

type ReportStore interface {
	GetReports(limit, offset int) ([]model.Report, error)
	GetReportByID(id int64) (*model.Report, error)
	GetReportTotal() (int, error)
}

type ReportHandler struct {
	repository ReportStore
}

func NewReportHandler(repository ReportStore) *ReportHandler {
	return &ReportHandler{repository: repository}
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	reports, err := h.repository.GetReports(limit, offset)
	if err != nil {
		slog.Error("error fetching reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetReportTotal()
	if err != nil {
		slog.Error("error fetching report total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	reportRes := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		reportRes = append(reportRes, toReportResponse(r))
	}

	c.JSON(http.StatusOK, ReportsResponse{
		Reports: reportRes,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	id := c.Param("id")

	reportID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.Error("invalid report id", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	report, err := h.repository.GetReportByID(reportID)
	if err != nil {
		slog.Error("error fetching report", "error", err, "report_id", reportID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, toReportResponse(*report))
}

func (h *ReportHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetReportTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func toReportResponse(r model.Report) ReportResponse {
	return ReportResponse{
		ID:        r.ID,
		SourceURL: r.SourceURL,
		Ticker:    r.Ticker,
		Thesis:    r.Thesis,
		Context:   r.Context,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsed
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
