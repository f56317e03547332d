package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	inventorymemory "github.com/Apurer/order-engine/internal/domains/inventory/adapters/memory"
	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
)

var (
	_ ports.UnitOfWork = (*Store)(nil)
	_ ports.ReadModel  = (*Store)(nil)
)

// Store keeps orders and addresses in memory and shares a unit of work with
// the inventory store, so a checkout commits stock and order state together.
type Store struct {
	inventory *inventorymemory.Store

	mu        sync.RWMutex
	orders    map[string]*domain.Order
	addresses map[string]*domain.Address
	now       func() time.Time
}

// NewStore constructs an empty store bound to the given inventory.
func NewStore(inventory *inventorymemory.Store) *Store {
	return &Store{
		inventory: inventory,
		orders:    map[string]*domain.Order{},
		addresses: map[string]*domain.Address{},
		now:       time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *Store) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Do runs fn with the inventory lock held first and the order lock second.
// Both working copies are published only when fn succeeds.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if s.inventory == nil {
		return errors.New("inventory store is not configured")
	}
	return s.inventory.Atomically(func(ledger *inventorymemory.Ledger) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		scope := &txScope{
			ledger:    ledger,
			orders:    cloneOrders(s.orders),
			addresses: cloneAddresses(s.addresses),
			now:       s.now,
		}
		if err := fn(ctx, scope); err != nil {
			return err
		}
		s.orders = scope.orders
		s.addresses = scope.addresses
		return nil
	})
}

// SaveAddress stores a delivery address outside of any checkout.
func (s *Store) SaveAddress(_ context.Context, address *domain.Address) error {
	if address == nil || strings.TrimSpace(address.ID) == "" {
		return errors.New("address id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[address.ID] = address.Clone()
	return nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[strings.TrimSpace(id)]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	return order.Clone(), nil
}

func (s *Store) ListOrdersByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedOrders(s.orders, func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (s *Store) ListOrders(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedOrders(s.orders, nil), nil
}

func (s *Store) AddressesByID(_ context.Context, ids []string) (map[string]*domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]*domain.Address, len(ids))
	for _, id := range ids {
		if address, ok := s.addresses[id]; ok {
			result[id] = address.Clone()
		}
	}
	return result, nil
}

type txScope struct {
	ledger    *inventorymemory.Ledger
	orders    map[string]*domain.Order
	addresses map[string]*domain.Address
	now       func() time.Time
}

func (t *txScope) Inventory() inventoryports.Ledger { return t.ledger }
func (t *txScope) Orders() ports.Repository         { return (*orderRepository)(t) }
func (t *txScope) Addresses() ports.AddressBook     { return (*addressBook)(t) }

type orderRepository txScope

func (r *orderRepository) Insert(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	if _, ok := r.orders[order.ID]; ok {
		return errors.New("order already exists")
	}
	for _, existing := range r.orders {
		if existing.OrderNumber == order.OrderNumber {
			return errors.New("order number already exists")
		}
		if order.IdempotencyKey != "" && existing.UserID == order.UserID && existing.IdempotencyKey == order.IdempotencyKey {
			return ports.ErrIdempotencyConflict
		}
	}
	clone := order.Clone()
	if clone.UpdatedAt.IsZero() {
		clone.UpdatedAt = clone.Date
	}
	r.orders[clone.ID] = clone
	return nil
}

func (r *orderRepository) GetForUpdate(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[strings.TrimSpace(id)]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	return order.Clone(), nil
}

func (r *orderRepository) Update(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	if _, ok := r.orders[order.ID]; !ok {
		return ports.ErrOrderNotFound
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *orderRepository) FindByIdempotencyKey(_ context.Context, userID, key string) (*domain.Order, error) {
	for _, order := range r.orders {
		if order.UserID == userID && order.IdempotencyKey == key {
			return order.Clone(), nil
		}
	}
	return nil, nil
}

type addressBook txScope

func (b *addressBook) FindWalkIn(_ context.Context, userID string) (*domain.Address, error) {
	for _, address := range b.addresses {
		if address.UserID == userID && address.IsWalkIn() {
			return address.Clone(), nil
		}
	}
	return nil, nil
}

func (b *addressBook) CreateWalkIn(ctx context.Context, candidate *domain.Address) (*domain.Address, error) {
	if candidate == nil || strings.TrimSpace(candidate.ID) == "" {
		return nil, errors.New("address id is required")
	}
	if existing, _ := b.FindWalkIn(ctx, candidate.UserID); existing != nil {
		return existing, nil
	}
	if _, ok := b.addresses[candidate.ID]; ok {
		return nil, errors.New("address already exists")
	}
	b.addresses[candidate.ID] = candidate.Clone()
	return candidate.Clone(), nil
}

func (b *addressBook) Get(_ context.Context, id string) (*domain.Address, error) {
	address, ok := b.addresses[strings.TrimSpace(id)]
	if !ok {
		return nil, ports.ErrAddressNotFound
	}
	return address.Clone(), nil
}

func cloneOrders(src map[string]*domain.Order) map[string]*domain.Order {
	dst := make(map[string]*domain.Order, len(src))
	for id, order := range src {
		dst[id] = order.Clone()
	}
	return dst
}

func cloneAddresses(src map[string]*domain.Address) map[string]*domain.Address {
	dst := make(map[string]*domain.Address, len(src))
	for id, address := range src {
		dst[id] = address.Clone()
	}
	return dst
}

func sortedOrders(src map[string]*domain.Order, keep func(*domain.Order) bool) []*domain.Order {
	result := make([]*domain.Order, 0, len(src))
	for _, order := range src {
		if keep != nil && !keep(order) {
			continue
		}
		result = append(result, order.Clone())
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].ID > result[j].ID
		}
		return result[i].Date.After(result[j].Date)
	})
	return result
}
