package ports

import (
	"context"
	"errors"

	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAddressNotFound = errors.New("address not found")
	// ErrIdempotencyConflict indicates a key was reused with a different checkout payload.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
)

// Repository is the order write path. It is always bound to a unit of work.
type Repository interface {
	Insert(ctx context.Context, order *domain.Order) error
	// GetForUpdate loads an order and holds it against concurrent writers until the unit of work ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Order, error)
	// Update persists the order header and every item status as one write.
	Update(ctx context.Context, order *domain.Order) error
	// FindByIdempotencyKey returns nil when no order carries the key for userID.
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error)
}

// AddressBook is the slice of the address service the checkout needs.
type AddressBook interface {
	// FindWalkIn returns nil when the user has no walk-in placeholder yet.
	FindWalkIn(ctx context.Context, userID string) (*domain.Address, error)
	// CreateWalkIn stores candidate unless the user already has a walk-in
	// placeholder, and returns whichever one is stored.
	CreateWalkIn(ctx context.Context, candidate *domain.Address) (*domain.Address, error)
	Get(ctx context.Context, id string) (*domain.Address, error)
}

// Tx exposes the stores that participate in one unit of work.
type Tx interface {
	Inventory() inventoryports.Ledger
	Orders() Repository
	Addresses() AddressBook
}

// UnitOfWork runs fn atomically. A non-nil error from fn discards every write
// made through tx.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// ReadModel serves order queries outside of any unit of work.
type ReadModel interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	// ListOrdersByUser returns the user's orders, newest first.
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	AddressesByID(ctx context.Context, ids []string) (map[string]*domain.Address, error)
}
