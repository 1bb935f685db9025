package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/medtrack/pharmacy-pos/internal/sale/domain"
)

var tracer = otel.Tracer("sale-repository")

// GormSaleRepositoryWithTracing wraps GormSaleRepository with tracing
// on the transaction path.
type GormSaleRepositoryWithTracing struct {
	*GormSaleRepository
}

// NewGormSaleRepositoryWithTracing creates a new repository with tracing
func NewGormSaleRepositoryWithTracing(db *gorm.DB) *GormSaleRepositoryWithTracing {
	return &GormSaleRepositoryWithTracing{
		GormSaleRepository: NewGormSaleRepository(db),
	}
}

// ProcessSale with tracing
func (r *GormSaleRepositoryWithTracing) ProcessSale(ctx context.Context, cart []domain.CartLine) (*domain.Sale, error) {
	ctx, span := tracer.Start(ctx, "repository.ProcessSale",
		trace.WithAttributes(
			attribute.Int("cart.lines", len(cart)),
		),
	)
	defer span.End()

	sale, err := r.GormSaleRepository.ProcessSale(ctx, cart)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if kind, ok := domain.Kind(err); ok {
			span.SetAttributes(attribute.String("sale.error_kind", kind))
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("sale.id", int(sale.ID)),
		attribute.String("sale.receipt", sale.ReceiptNumber),
		attribute.String("sale.total", sale.TotalAmount.String()),
	)
	return sale, nil
}
