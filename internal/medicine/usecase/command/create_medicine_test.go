package command

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

func validCreateCommand() CreateMedicineCommand {
	return CreateMedicineCommand{
		Name:          "Paracetamol",
		BrandName:     "Acme Pharma",
		Category:      domain.CategoryTablet,
		DosageForm:    "500mg tablet",
		PurchasePrice: decimal.RequireFromString("8.00"),
		SellingPrice:  decimal.RequireFromString("12.50"),
		Quantity:      100,
		BatchNumber:   "B-2026-014",
		ExpiryDate:    time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateMedicine_HappyPath(t *testing.T) {
	repo := newFakeMedicineRepo()
	handler := NewCreateMedicineHandler(repo)

	medicine, err := handler.Handle(validCreateCommand())

	require.NoError(t, err)
	assert.NotZero(t, medicine.ID)
	assert.Equal(t, "Paracetamol", medicine.Name)
	assert.Equal(t, 100, medicine.Quantity)

	stored, err := repo.FindByID(medicine.ID)
	require.NoError(t, err)
	assert.Equal(t, medicine.Name, stored.Name)
}

func TestCreateMedicine_DefaultsCategoryToOther(t *testing.T) {
	repo := newFakeMedicineRepo()
	handler := NewCreateMedicineHandler(repo)

	cmd := validCreateCommand()
	cmd.Category = ""

	medicine, err := handler.Handle(cmd)

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, medicine.Category)
}

func TestCreateMedicine_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateMedicineCommand)
	}{
		{"missing name", func(c *CreateMedicineCommand) { c.Name = "" }},
		{"unknown category", func(c *CreateMedicineCommand) { c.Category = "Powder" }},
		{"negative selling price", func(c *CreateMedicineCommand) { c.SellingPrice = decimal.RequireFromString("-1") }},
		{"negative purchase price", func(c *CreateMedicineCommand) { c.PurchasePrice = decimal.RequireFromString("-0.01") }},
		{"negative quantity", func(c *CreateMedicineCommand) { c.Quantity = -5 }},
		{"missing expiry date", func(c *CreateMedicineCommand) { c.ExpiryDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeMedicineRepo()
			handler := NewCreateMedicineHandler(repo)

			cmd := validCreateCommand()
			tt.mutate(&cmd)

			medicine, err := handler.Handle(cmd)

			assert.Error(t, err)
			assert.Nil(t, medicine)
			assert.Zero(t, repo.count(), "nothing should be stored on validation failure")
		})
	}
}

func TestUpdateSellingPrice_RejectsNegativePrice(t *testing.T) {
	repo := newFakeMedicineRepo()
	handler := NewUpdateSellingPriceHandler(repo)

	err := handler.Handle(UpdateSellingPriceCommand{
		ID:    1,
		Price: decimal.RequireFromString("-3"),
	})

	assert.Error(t, err)
}

func TestUpdateSellingPrice_UnknownMedicine(t *testing.T) {
	repo := newFakeMedicineRepo()
	handler := NewUpdateSellingPriceHandler(repo)

	err := handler.Handle(UpdateSellingPriceCommand{
		ID:    42,
		Price: decimal.RequireFromString("9.99"),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMedicine_BlockedWhileReferenced(t *testing.T) {
	repo := newFakeMedicineRepo()
	created, err := NewCreateMedicineHandler(repo).Handle(validCreateCommand())
	require.NoError(t, err)

	repo.reference(created.ID)

	err = NewDeleteMedicineHandler(repo).Handle(DeleteMedicineCommand{ID: created.ID})

	assert.ErrorIs(t, err, domain.ErrMedicineReferenced)

	_, err = repo.FindByID(created.ID)
	assert.NoError(t, err, "protected medicine must remain")
}

func TestDeleteMedicine_RemovesUnreferencedRecord(t *testing.T) {
	repo := newFakeMedicineRepo()
	created, err := NewCreateMedicineHandler(repo).Handle(validCreateCommand())
	require.NoError(t, err)

	err = NewDeleteMedicineHandler(repo).Handle(DeleteMedicineCommand{ID: created.ID})
	require.NoError(t, err)

	_, err = repo.FindByID(created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
