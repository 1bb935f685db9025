package query

import (
	"fmt"

	"github.com/medtrack/pharmacy-pos/internal/sale/domain"
)

// RevenueReportQuery represents the query for the sales report totals
type RevenueReportQuery struct{}

// RevenueReportHandler handles the revenue report query
type RevenueReportHandler struct {
	repo domain.SaleRepository
}

// NewRevenueReportHandler creates a new revenue report handler
func NewRevenueReportHandler(repo domain.SaleRepository) *RevenueReportHandler {
	return &RevenueReportHandler{repo: repo}
}

// Handle executes the revenue report query
func (h *RevenueReportHandler) Handle(RevenueReportQuery) (*domain.RevenueReport, error) {
	report, err := h.repo.Revenue()
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue report: %w", err)
	}

	return report, nil
}
