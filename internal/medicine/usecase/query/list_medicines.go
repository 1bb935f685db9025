package query

import (
	"fmt"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// ListMedicinesQuery represents the query to list medicine records
type ListMedicinesQuery struct {
	Limit  int
	Offset int
}

// ListMedicinesHandler handles list medicines query
type ListMedicinesHandler struct {
	repo domain.MedicineRepository
}

// NewListMedicinesHandler creates a new list medicines handler
func NewListMedicinesHandler(repo domain.MedicineRepository) *ListMedicinesHandler {
	return &ListMedicinesHandler{repo: repo}
}

// Handle executes the list medicines query
func (h *ListMedicinesHandler) Handle(query ListMedicinesQuery) ([]domain.Medicine, error) {
	if query.Limit == 0 {
		query.Limit = 10
	}

	if query.Limit > 100 {
		query.Limit = 100
	}

	medicines, err := h.repo.FindAll(query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}

	return medicines, nil
}
