package query

import (
	"fmt"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// ListAvailableQuery represents the query for sellable medicines
type ListAvailableQuery struct{}

// ListAvailableHandler handles the POS screen feed: every medicine
// with at least one unit on hand, ordered by name.
type ListAvailableHandler struct {
	repo domain.MedicineRepository
}

// NewListAvailableHandler creates a new list available handler
func NewListAvailableHandler(repo domain.MedicineRepository) *ListAvailableHandler {
	return &ListAvailableHandler{repo: repo}
}

// Handle executes the list available query
func (h *ListAvailableHandler) Handle(ListAvailableQuery) ([]domain.Medicine, error) {
	medicines, err := h.repo.FindAvailable()
	if err != nil {
		return nil, fmt.Errorf("failed to list available medicines: %w", err)
	}

	return medicines, nil
}
