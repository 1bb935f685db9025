package command

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

// UpdateMedicineCommand represents the command to update a medicine record
type UpdateMedicineCommand struct {
	ID            uint
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

// UpdateMedicineHandler handles update medicine command
type UpdateMedicineHandler struct {
	repo domain.MedicineRepository
}

// NewUpdateMedicineHandler creates a new update medicine handler
func NewUpdateMedicineHandler(repo domain.MedicineRepository) *UpdateMedicineHandler {
	return &UpdateMedicineHandler{repo: repo}
}

// Handle executes the update medicine command
func (h *UpdateMedicineHandler) Handle(cmd UpdateMedicineCommand) (*domain.Medicine, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("medicine id is required")
	}

	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if cmd.Category != "" && !domain.ValidCategory(cmd.Category) {
		return nil, fmt.Errorf("unknown category: %s", cmd.Category)
	}

	if cmd.PurchasePrice.IsNegative() || cmd.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("prices cannot be negative")
	}

	if cmd.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	medicine, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, err
	}

	medicine.Name = cmd.Name
	medicine.Description = cmd.Description
	medicine.BrandName = cmd.BrandName
	if cmd.Category != "" {
		medicine.Category = cmd.Category
	}
	medicine.DosageForm = cmd.DosageForm
	medicine.PurchasePrice = cmd.PurchasePrice
	medicine.SellingPrice = cmd.SellingPrice
	medicine.Quantity = cmd.Quantity
	medicine.BatchNumber = cmd.BatchNumber
	medicine.PurchaseDate = cmd.PurchaseDate
	if !cmd.ExpiryDate.IsZero() {
		medicine.ExpiryDate = cmd.ExpiryDate
	}
	medicine.SupplierName = cmd.SupplierName
	medicine.StorageInfo = cmd.StorageInfo
	medicine.Location = cmd.Location

	if err := h.repo.Update(medicine); err != nil {
		return nil, fmt.Errorf("failed to update medicine: %w", err)
	}

	return medicine, nil
}
