package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	meddomain "github.com/medtrack/pharmacy-pos/internal/medicine/domain"
	medrepository "github.com/medtrack/pharmacy-pos/internal/medicine/repository"
	"github.com/medtrack/pharmacy-pos/internal/sale/domain"
)

type GormSaleRepository struct {
	db *gorm.DB
}

func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// ProcessSale commits a cart as a new sale inside one transaction.
// Each medicine row is locked before the stock check, so two
// concurrent sales can never both succeed when their combined
// quantities exceed the available stock. Any failure rolls the whole
// scope back: no sale record, no line items, no stock changes.
func (r *GormSaleRepository) ProcessSale(ctx context.Context, cart []domain.CartLine) (*domain.Sale, error) {
	sale := &domain.Sale{
		ReceiptNumber: fmt.Sprintf("RCP-%s", uuid.New().String()[:8]),
		TotalAmount:   decimal.Zero,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(sale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		// Cart order drives lock order, keeping behavior
		// deterministic. A duplicate medicine id later in the cart
		// sees the quantity already decremented here.
		for _, line := range cart {
			var medicine meddomain.Medicine
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&medicine, line.MedicineID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &domain.MedicineNotFoundError{MedicineID: line.MedicineID}
				}
				return fmt.Errorf("failed to load medicine %d: %w", line.MedicineID, err)
			}

			if medicine.Quantity < line.Quantity {
				return &domain.InsufficientStockError{
					MedicineID: medicine.ID,
					Name:       medicine.Name,
					Requested:  line.Quantity,
					Available:  medicine.Quantity,
				}
			}

			item := domain.SaleItem{
				SaleID:      sale.ID,
				MedicineID:  medicine.ID,
				Quantity:    line.Quantity,
				PriceAtSale: medicine.SellingPrice,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create sale item: %w", err)
			}

			// The conditional decrement backs up the locked read and
			// keeps quantity from ever going negative.
			err = medrepository.NewGormMedicineRepository(tx).
				DecrementQuantity(medicine.ID, line.Quantity)
			if err != nil {
				if errors.Is(err, meddomain.ErrInsufficientStock) {
					return &domain.InsufficientStockError{
						MedicineID: medicine.ID,
						Name:       medicine.Name,
						Requested:  line.Quantity,
						Available:  medicine.Quantity,
					}
				}
				return fmt.Errorf("failed to decrement stock: %w", err)
			}

			sale.Items = append(sale.Items, item)
		}

		// The total is always re-derived from the committed line
		// items within the same transaction.
		var total decimal.Decimal
		err := tx.Model(&domain.SaleItem{}).
			Where("sale_id = ?", sale.ID).
			Select("COALESCE(SUM(quantity * price_at_sale), 0)").
			Scan(&total).Error
		if err != nil {
			return fmt.Errorf("failed to compute sale total: %w", err)
		}

		sale.TotalAmount = total
		return tx.Model(&domain.Sale{}).
			Where("id = ?", sale.ID).
			Update("total_amount", total).Error
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func (r *GormSaleRepository) FindByID(id uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.Preload("Items").Preload("Items.Medicine").First(&sale, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, err
	}
	return &sale, nil
}

func (r *GormSaleRepository) FindAll(limit, offset int) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.db.Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *GormSaleRepository) Revenue() (*domain.RevenueReport, error) {
	var report domain.RevenueReport
	err := r.db.Model(&domain.Sale{}).
		Select("COUNT(*) AS sale_count, COALESCE(SUM(total_amount), 0) AS total_revenue").
		Scan(&report).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}
	return &report, nil
}
