package query

import (
	"fmt"
	"time"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// ListExpiringQuery represents the query for medicines nearing expiry
type ListExpiringQuery struct {
	WithinDays int
}

// ListExpiringHandler handles the expiring stock report
type ListExpiringHandler struct {
	repo domain.MedicineRepository
}

// NewListExpiringHandler creates a new list expiring handler
func NewListExpiringHandler(repo domain.MedicineRepository) *ListExpiringHandler {
	return &ListExpiringHandler{repo: repo}
}

// Handle executes the list expiring query
func (h *ListExpiringHandler) Handle(query ListExpiringQuery) ([]domain.Medicine, error) {
	if query.WithinDays <= 0 {
		query.WithinDays = 30
	}

	cutoff := time.Now().AddDate(0, 0, query.WithinDays)
	medicines, err := h.repo.FindExpiringBefore(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring medicines: %w", err)
	}

	return medicines, nil
}
