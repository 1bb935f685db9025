package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	meddomain "github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// Sale represents one committed point-of-sale transaction. A sale is
// immutable once its line items are committed; total_amount is always
// re-derived from the line items, never edited directly.
type Sale struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	ReceiptNumber string          `json:"receipt_number" gorm:"not null;uniqueIndex"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`

	Items []SaleItem `json:"items,omitempty" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (Sale) TableName() string {
	return "sales"
}

// SaleItem represents one line of a sale. PriceAtSale is captured from
// the medicine's selling price at the moment of sale, so later price
// changes do not alter committed sales.
type SaleItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SaleID      uint            `json:"sale_id" gorm:"not null;index"`
	MedicineID  uint            `json:"medicine_id" gorm:"not null;index"`
	Quantity    int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	PriceAtSale decimal.Decimal `json:"price_at_sale" gorm:"type:decimal(10,2);not null"`

	Medicine *meddomain.Medicine `json:"medicine,omitempty" gorm:"foreignKey:MedicineID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name
func (SaleItem) TableName() string {
	return "sale_items"
}

// Subtotal computes quantity x price_at_sale
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartLine is one caller-submitted request line: a medicine and the
// quantity to sell.
type CartLine struct {
	MedicineID uint `json:"medicine_id"`
	Quantity   int  `json:"quantity"`
}

// RevenueReport aggregates all committed sales
type RevenueReport struct {
	SaleCount    int64           `json:"sale_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// SaleRepository defines the contract for sale data access
type SaleRepository interface {
	// ProcessSale turns a validated cart into a committed sale, or
	// rolls back with no partial effect. Stock is decremented per
	// line inside the same transaction.
	ProcessSale(ctx context.Context, cart []CartLine) (*Sale, error)
	FindByID(id uint) (*Sale, error)
	FindAll(limit, offset int) ([]Sale, error)
	Revenue() (*RevenueReport, error)
}
