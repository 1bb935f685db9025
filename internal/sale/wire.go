//go:build wireinject
// +build wireinject

package sale

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/medtrack/pharmacy-pos/internal/sale/delivery/http"
	"github.com/medtrack/pharmacy-pos/pkg/cache"
)

// InitializeHTTPHandler initializes the sale HTTP handler with all
// dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher httpDelivery.EventPublisher, inventoryCache *cache.Store) (*httpDelivery.SaleHandler, error) {
	wire.Build(
		RepositorySet,
		httpDelivery.NewSaleHandler,
	)
	return nil, nil
}
