package ports

import (
	"context"

	"github.com/Apurer/order-engine/internal/domains/inventory/application/types"
	"github.com/Apurer/order-engine/internal/domains/inventory/domain"
)

// Service exposes inventory use cases to adapters.
type Service interface {
	Restock(ctx context.Context, input types.RestockInput) (*domain.Product, error)
}
