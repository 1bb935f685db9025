package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Medicine categories
const (
	CategoryTablet    = "Tablet"
	CategorySyrup     = "Syrup"
	CategoryInjection = "Injection"
	CategoryOintment  = "Ointment"
	CategoryCapsule   = "Capsule"
	CategoryOther     = "Other"
)

// Categories lists the accepted medicine categories
var Categories = []string{
	CategoryTablet,
	CategorySyrup,
	CategoryInjection,
	CategoryOintment,
	CategoryCapsule,
	CategoryOther,
}

// ValidCategory reports whether c is a known category
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Domain errors
var (
	ErrNotFound           = errors.New("medicine not found")
	ErrMedicineReferenced = errors.New("medicine is referenced by sale items")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// Medicine represents a medicine record in the pharmacy inventory
type Medicine struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;index"`
	Description string `json:"description"`
	BrandName   string `json:"brand_name"`
	Category    string `json:"category" gorm:"not null;default:'Other'"`
	DosageForm  string `json:"dosage_form"` // e.g., 500mg tablet, 5ml/5mg syrup

	PurchasePrice decimal.Decimal `json:"purchase_price" gorm:"type:decimal(10,2);not null"`
	SellingPrice  decimal.Decimal `json:"selling_price" gorm:"type:decimal(10,2);not null"`

	// Quantity on hand, never negative. The CHECK backs up the
	// conditional decrement in the repository.
	Quantity    int    `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	BatchNumber string `json:"batch_number"`

	PurchaseDate *time.Time `json:"purchase_date"`
	ExpiryDate   time.Time  `json:"expiry_date" gorm:"not null"`

	SupplierName string `json:"supplier_name"`
	StorageInfo  string `json:"storage_info"` // e.g., Keep refrigerated
	Location     string `json:"location"`     // e.g., Shelf 3, Box A

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Medicine) TableName() string {
	return "medicines"
}

// InStock reports whether the medicine has sellable units
func (m *Medicine) InStock() bool {
	return m.Quantity > 0
}

// ExpiresBy reports whether the medicine expires on or before cutoff
func (m *Medicine) ExpiresBy(cutoff time.Time) bool {
	return !m.ExpiryDate.After(cutoff)
}

// MedicineRepository defines the contract for medicine data access
type MedicineRepository interface {
	Create(medicine *Medicine) error
	FindByID(id uint) (*Medicine, error)
	FindAll(limit, offset int) ([]Medicine, error)
	FindAvailable() ([]Medicine, error)
	FindExpiringBefore(cutoff time.Time) ([]Medicine, error)
	Update(medicine *Medicine) error
	UpdateSellingPrice(id uint, price decimal.Decimal) error
	Delete(id uint) error
	// DecrementQuantity atomically reduces quantity on hand. It fails
	// with ErrInsufficientStock when fewer than amount units remain,
	// and never lets the quantity go negative.
	DecrementQuantity(id uint, amount int) error
	Count() (int64, error)
}
