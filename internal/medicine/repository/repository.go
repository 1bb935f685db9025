package repository

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
)

type GormMedicineRepository struct {
	db *gorm.DB
}

// NewGormMedicineRepository creates a medicine repository bound to db,
// which may be a transaction handle.
func NewGormMedicineRepository(db *gorm.DB) *GormMedicineRepository {
	return &GormMedicineRepository{db: db}
}

func (r *GormMedicineRepository) Create(medicine *domain.Medicine) error {
	return r.db.Create(medicine).Error
}

func (r *GormMedicineRepository) FindByID(id uint) (*domain.Medicine, error) {
	var medicine domain.Medicine
	err := r.db.First(&medicine, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &medicine, nil
}

func (r *GormMedicineRepository) FindAll(limit, offset int) ([]domain.Medicine, error) {
	var medicines []domain.Medicine
	err := r.db.Limit(limit).Offset(offset).
		Order("name ASC").
		Find(&medicines).Error
	return medicines, err
}

func (r *GormMedicineRepository) FindAvailable() ([]domain.Medicine, error) {
	var medicines []domain.Medicine
	err := r.db.Where("quantity > 0").
		Order("name ASC").
		Find(&medicines).Error
	return medicines, err
}

func (r *GormMedicineRepository) FindExpiringBefore(cutoff time.Time) ([]domain.Medicine, error) {
	var medicines []domain.Medicine
	err := r.db.Where("expiry_date <= ?", cutoff).
		Order("expiry_date ASC").
		Find(&medicines).Error
	return medicines, err
}

func (r *GormMedicineRepository) Update(medicine *domain.Medicine) error {
	return r.db.Save(medicine).Error
}

func (r *GormMedicineRepository) UpdateSellingPrice(id uint, price decimal.Decimal) error {
	result := r.db.Model(&domain.Medicine{}).
		Where("id = ?", id).
		Update("selling_price", price)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a medicine record. Medicines referenced by sale line
// items are protected: soft deletes bypass the foreign key, so the
// reference count is checked inside the same transaction.
func (r *GormMedicineRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := NewGormMedicineRepository(tx).FindByID(id); err != nil {
			return err
		}

		var refs int64
		if err := tx.Table("sale_items").
			Where("medicine_id = ?", id).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrMedicineReferenced
		}

		return tx.Delete(&domain.Medicine{}, id).Error
	})
}

// DecrementQuantity reduces quantity on hand in a single conditional
// UPDATE. The WHERE clause makes the check-and-decrement one atomic
// step relative to concurrent sales.
func (r *GormMedicineRepository) DecrementQuantity(id uint, amount int) error {
	result := r.db.Model(&domain.Medicine{}).
		Where("id = ? AND quantity >= ?", id, amount).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the row is missing or the stock is short
		if _, err := r.FindByID(id); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *GormMedicineRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Medicine{}).Count(&count).Error
	return count, err
}
