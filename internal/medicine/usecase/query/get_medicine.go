package query

import (
	"fmt"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// GetMedicineQuery represents the query to fetch one medicine record
type GetMedicineQuery struct {
	ID uint
}

// GetMedicineHandler handles get medicine query
type GetMedicineHandler struct {
	repo domain.MedicineRepository
}

// NewGetMedicineHandler creates a new get medicine handler
func NewGetMedicineHandler(repo domain.MedicineRepository) *GetMedicineHandler {
	return &GetMedicineHandler{repo: repo}
}

// Handle executes the get medicine query
func (h *GetMedicineHandler) Handle(query GetMedicineQuery) (*domain.Medicine, error) {
	if query.ID == 0 {
		return nil, fmt.Errorf("medicine id is required")
	}

	return h.repo.FindByID(query.ID)
}
