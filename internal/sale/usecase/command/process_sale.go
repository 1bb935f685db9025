package command

import (
	"context"

	"github.com/medtrack/pharmacy-pos/internal/sale/domain"
)

// ProcessSaleCommand represents the command to process a POS cart
type ProcessSaleCommand struct {
	Cart []domain.CartLine
}

// ProcessSaleHandler handles the process sale command
type ProcessSaleHandler struct {
	repo domain.SaleRepository
}

// NewProcessSaleHandler creates a new process sale handler
func NewProcessSaleHandler(repo domain.SaleRepository) *ProcessSaleHandler {
	return &ProcessSaleHandler{repo: repo}
}

// Handle validates the cart and commits it as one atomic sale. Cart
// validation happens before any database work, so an invalid line
// leaves no side effects at all.
func (h *ProcessSaleHandler) Handle(ctx context.Context, cmd ProcessSaleCommand) (*domain.Sale, error) {
	if len(cmd.Cart) == 0 {
		return nil, domain.ErrEmptyCart
	}

	for _, line := range cmd.Cart {
		if line.MedicineID == 0 {
			return nil, &domain.MedicineNotFoundError{MedicineID: line.MedicineID}
		}
		if line.Quantity <= 0 {
			return nil, &domain.InvalidQuantityError{
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
			}
		}
	}

	// Domain errors from the repository surface verbatim; retrying is
	// the caller's decision since stock may have changed.
	return h.repo.ProcessSale(ctx, cmd.Cart)
}
