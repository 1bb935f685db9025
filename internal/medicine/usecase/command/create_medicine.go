package command

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// CreateMedicineCommand represents the command to create a medicine record
type CreateMedicineCommand struct {
	Name          string
	Description   string
	BrandName     string
	Category      string
	DosageForm    string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Quantity      int
	BatchNumber   string
	PurchaseDate  *time.Time
	ExpiryDate    time.Time
	SupplierName  string
	StorageInfo   string
	Location      string
}

// CreateMedicineHandler handles create medicine command
type CreateMedicineHandler struct {
	repo domain.MedicineRepository
}

// NewCreateMedicineHandler creates a new create medicine handler
func NewCreateMedicineHandler(repo domain.MedicineRepository) *CreateMedicineHandler {
	return &CreateMedicineHandler{repo: repo}
}

// Handle executes the create medicine command
func (h *CreateMedicineHandler) Handle(cmd CreateMedicineCommand) (*domain.Medicine, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if cmd.Category == "" {
		cmd.Category = domain.CategoryOther
	}
	if !domain.ValidCategory(cmd.Category) {
		return nil, fmt.Errorf("unknown category: %s", cmd.Category)
	}

	if cmd.PurchasePrice.IsNegative() || cmd.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("prices cannot be negative")
	}

	if cmd.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	if cmd.ExpiryDate.IsZero() {
		return nil, fmt.Errorf("expiry_date is required")
	}

	medicine := &domain.Medicine{
		Name:          cmd.Name,
		Description:   cmd.Description,
		BrandName:     cmd.BrandName,
		Category:      cmd.Category,
		DosageForm:    cmd.DosageForm,
		PurchasePrice: cmd.PurchasePrice,
		SellingPrice:  cmd.SellingPrice,
		Quantity:      cmd.Quantity,
		BatchNumber:   cmd.BatchNumber,
		PurchaseDate:  cmd.PurchaseDate,
		ExpiryDate:    cmd.ExpiryDate,
		SupplierName:  cmd.SupplierName,
		StorageInfo:   cmd.StorageInfo,
		Location:      cmd.Location,
	}

	if err := h.repo.Create(medicine); err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}

	return medicine, nil
}
