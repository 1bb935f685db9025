package medicine

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
	"github.com/medtrack/pharmacy-pos/internal/medicine/repository"
)

// ProvideMedicineRepository provides the medicine repository
func ProvideMedicineRepository(db *gorm.DB) domain.MedicineRepository {
	return repository.NewGormMedicineRepository(db)
}

// RepositorySet is the wire provider set for the inventory store
var RepositorySet = wire.NewSet(
	ProvideMedicineRepository,
)
