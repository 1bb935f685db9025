//go:build wireinject
// +build wireinject

package medicine

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/medtrack/pharmacy-pos/internal/medicine/delivery/http"
	"github.com/medtrack/pharmacy-pos/pkg/cache"
)

// InitializeHTTPHandler initializes the medicine HTTP handler with all
// dependencies
func InitializeHTTPHandler(db *gorm.DB, store *cache.Store) (*httpDelivery.MedicineHandler, error) {
	wire.Build(
		RepositorySet,
		httpDelivery.NewMedicineHandler,
	)
	return nil, nil
}
