package ports

import (
	"context"
	"errors"

	"github.com/Apurer/order-engine/internal/domains/inventory/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Ledger is the only write path for product stock. Implementations are bound
// to a unit of work; every call shares that unit's transaction.
type Ledger interface {
	// CheckAndReserve loads the product and verifies quantity units are on hand.
	CheckAndReserve(ctx context.Context, productID string, quantity int) (*domain.Product, error)
	// Decrement removes quantity units with a single guarded write (stock >= quantity).
	Decrement(ctx context.Context, productID string, quantity int) error
	// Restock adds quantity units and flags the product available.
	Restock(ctx context.Context, productID string, quantity int) (*domain.Product, error)
}

// LedgerSession runs fn against a ledger inside its own transaction.
type LedgerSession interface {
	InLedger(ctx context.Context, fn func(ctx context.Context, ledger Ledger) error) error
}

// Catalog is the product read path used for display joins.
type Catalog interface {
	ProductsByID(ctx context.Context, ids []string) (map[string]*domain.Product, error)
	SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
}
