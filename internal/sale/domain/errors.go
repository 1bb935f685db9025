package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the POS caller. Every failure during sale
// processing aborts the whole transaction and is reported as exactly
// one of these kinds.
const (
	KindEmptyCart         = "EmptyCart"
	KindInvalidQuantity   = "InvalidQuantity"
	KindNotFound          = "NotFound"
	KindInsufficientStock = "InsufficientStock"
)

// ErrEmptyCart is returned when a sale is attempted with no cart lines
var ErrEmptyCart = errors.New("cart is empty")

// ErrSaleNotFound is returned when a sale id is unknown
var ErrSaleNotFound = errors.New("sale not found")

// InvalidQuantityError reports a non-positive requested quantity
type InvalidQuantityError struct {
	MedicineID uint
	Quantity   int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for medicine %d", e.Quantity, e.MedicineID)
}

// MedicineNotFoundError reports an unknown medicine id in the cart
type MedicineNotFoundError struct {
	MedicineID uint
}

func (e *MedicineNotFoundError) Error() string {
	return fmt.Sprintf("medicine %d not found", e.MedicineID)
}

// InsufficientStockError reports a cart line requesting more units
// than are on hand at validation time.
type InsufficientStockError struct {
	MedicineID uint
	Name       string
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

// Kind classifies a sale processing error into one of the caller-facing
// error kinds. The second return is false for unexpected errors.
func Kind(err error) (string, bool) {
	var invalidQty *InvalidQuantityError
	var notFound *MedicineNotFoundError
	var shortStock *InsufficientStockError

	switch {
	case errors.Is(err, ErrEmptyCart):
		return KindEmptyCart, true
	case errors.As(err, &invalidQty):
		return KindInvalidQuantity, true
	case errors.As(err, &notFound):
		return KindNotFound, true
	case errors.As(err, &shortStock):
		return KindInsufficientStock, true
	default:
		return "", false
	}
}
