package query

import (
	"fmt"

	"github.com/medtrack/pharmacy-pos/internal/sale/domain"
)

// GetSaleQuery represents the query to fetch one sale with its items
type GetSaleQuery struct {
	ID uint
}

// GetSaleHandler handles get sale query
type GetSaleHandler struct {
	repo domain.SaleRepository
}

// NewGetSaleHandler creates a new get sale handler
func NewGetSaleHandler(repo domain.SaleRepository) *GetSaleHandler {
	return &GetSaleHandler{repo: repo}
}

// Handle executes the get sale query
func (h *GetSaleHandler) Handle(query GetSaleQuery) (*domain.Sale, error) {
	if query.ID == 0 {
		return nil, fmt.Errorf("sale id is required")
	}

	return h.repo.FindByID(query.ID)
}
