package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/order-engine/internal/domains/inventory/domain"
	"github.com/Apurer/order-engine/internal/domains/inventory/ports"
)

var (
	_ ports.Catalog       = (*Store)(nil)
	_ ports.LedgerSession = (*Store)(nil)
	_ ports.Ledger        = (*Ledger)(nil)
)

// Store is an in-memory product table. Writes go through Atomically, which
// serializes units of work and publishes a working copy only on success.
type Store struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{products: map[string]*domain.Product{}, now: time.Now}
}

// WithClock overrides the timestamp source, primarily for tests.
func (s *Store) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Atomically runs fn against a private copy of the table. The copy replaces
// the table only when fn returns nil.
func (s *Store) Atomically(fn func(ledger *Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	working := make(map[string]*domain.Product, len(s.products))
	for id, product := range s.products {
		working[id] = product.Clone()
	}
	if err := fn(&Ledger{products: working, now: s.now}); err != nil {
		return err
	}
	s.products = working
	return nil
}

func (s *Store) InLedger(ctx context.Context, fn func(ctx context.Context, ledger ports.Ledger) error) error {
	return s.Atomically(func(ledger *Ledger) error {
		return fn(ctx, ledger)
	})
}

func (s *Store) ProductsByID(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			result[id] = product.Clone()
		}
	}
	return result, nil
}

func (s *Store) SaveProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	clone := product.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if existing, ok := s.products[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	s.products[clone.ID] = clone
	return clone.Clone(), nil
}

// Ledger applies stock mutations to a working copy owned by Store.Atomically.
type Ledger struct {
	products map[string]*domain.Product
	now      func() time.Time
}

func (l *Ledger) CheckAndReserve(_ context.Context, productID string, quantity int) (*domain.Product, error) {
	product, err := l.lookup(productID)
	if err != nil {
		return nil, err
	}
	if err := product.CanReserve(quantity); err != nil {
		return nil, err
	}
	return product.Clone(), nil
}

func (l *Ledger) Decrement(_ context.Context, productID string, quantity int) error {
	product, err := l.lookup(productID)
	if err != nil {
		return err
	}
	return product.Take(quantity, l.now())
}

func (l *Ledger) Restock(_ context.Context, productID string, quantity int) (*domain.Product, error) {
	product, err := l.lookup(productID)
	if err != nil {
		return nil, err
	}
	if err := product.Restock(quantity, l.now()); err != nil {
		return nil, err
	}
	return product.Clone(), nil
}

func (l *Ledger) lookup(productID string) (*domain.Product, error) {
	product, ok := l.products[strings.TrimSpace(productID)]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	return product, nil
}
