package handler

import "github.com/theguesswho/financial-news-platform/internal/model"

type ReportResponse struct {
	ID        int64                 `json:"id"`
	SourceURL string                `json:"source_url"`
	Ticker    string                `json:"ticker"`
	Thesis    string                `json:"thesis"`
	Context   model.ContextSnapshot `json:"context"`
	CreatedAt string                `json:"created_at"`
}

type ReportsResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
