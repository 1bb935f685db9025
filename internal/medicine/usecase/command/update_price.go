package command

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// UpdateSellingPriceCommand represents the command to change the selling price
type UpdateSellingPriceCommand struct {
	ID    uint
	Price decimal.Decimal
}

// UpdateSellingPriceHandler handles selling price updates
type UpdateSellingPriceHandler struct {
	repo domain.MedicineRepository
}

// NewUpdateSellingPriceHandler creates a new update selling price handler
func NewUpdateSellingPriceHandler(repo domain.MedicineRepository) *UpdateSellingPriceHandler {
	return &UpdateSellingPriceHandler{repo: repo}
}

// Handle executes the update selling price command. Price changes only
// affect future sales; committed line items keep their price_at_sale.
func (h *UpdateSellingPriceHandler) Handle(cmd UpdateSellingPriceCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("medicine id is required")
	}

	if cmd.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}

	return h.repo.UpdateSellingPrice(cmd.ID, cmd.Price)
}
