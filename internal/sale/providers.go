package sale

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/medtrack/pharmacy-pos/internal/sale/domain"
	"github.com/medtrack/pharmacy-pos/internal/sale/repository"
)

// ProvideSaleRepository provides the sale repository with tracing
func ProvideSaleRepository(db *gorm.DB) domain.SaleRepository {
	return repository.NewGormSaleRepositoryWithTracing(db)
}

// RepositorySet is the wire provider set for the sale processor
var RepositorySet = wire.NewSet(
	ProvideSaleRepository,
)
