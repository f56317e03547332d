package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventorypostgres "github.com/Apurer/order-engine/internal/domains/inventory/adapters/persistence/postgres"
	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/order-engine/internal/platform/postgres"
)

var (
	_ ports.UnitOfWork  = (*Store)(nil)
	_ ports.ReadModel   = (*Store)(nil)
	_ ports.Repository  = (*orderRepository)(nil)
	_ ports.AddressBook = (*addressBook)(nil)
)

// Store persists orders and addresses in PostgreSQL using GORM. Units of work
// share one database transaction with the inventory ledger.
type Store struct {
	db     *gorm.DB
	txOpts platformpostgres.TxOptions
}

// NewStore wires a PostgreSQL-backed order store. Caller manages DB lifecycle.
func NewStore(db *gorm.DB, txOpts platformpostgres.TxOptions) *Store {
	return &Store{db: db, txOpts: txOpts}
}

// Do runs fn in a transaction, re-running it from scratch on serialization
// failures and deadlocks.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return platformpostgres.WithRetry(ctx, s.db, s.txOpts, func(tx *gorm.DB) error {
		return fn(ctx, &txScope{tx: tx})
	})
}

// SaveAddress upserts a delivery address outside of any checkout.
func (s *Store) SaveAddress(ctx context.Context, address *domain.Address) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if address == nil || strings.TrimSpace(address.ID) == "" {
		return errors.New("address id is required")
	}
	record := toAddressRecord(address)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"full_name":    record.FullName,
				"phone_number": record.PhoneNumber,
				"area":         record.Area,
				"state":        record.State,
				"note":         record.Note,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	orders, err := attachItems(ctx, s.db, []orderRecord{record})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("date DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return attachItems(ctx, s.db, records)
}

func (s *Store) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := s.db.WithContext(ctx).Order("date DESC").Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return attachItems(ctx, s.db, records)
}

func (s *Store) AddressesByID(ctx context.Context, ids []string) (map[string]*domain.Address, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	result := make(map[string]*domain.Address, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var records []addressRecord
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		result[records[i].ID] = records[i].toDomain()
	}
	return result, nil
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres order store not configured")
	}
	return nil
}

// attachItems loads the line items of records in one query.
func attachItems(ctx context.Context, db *gorm.DB, records []orderRecord) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(records))
	if len(records) == 0 {
		return orders, nil
	}
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	var items []orderItemRecord
	if err := db.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("order_id").Order("position").
		Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string][]orderItemRecord, len(records))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for _, record := range records {
		orders = append(orders, record.toDomain(byOrder[record.ID]))
	}
	return orders, nil
}

type txScope struct {
	tx *gorm.DB
}

func (t *txScope) Inventory() inventoryports.Ledger { return inventorypostgres.NewLedger(t.tx) }
func (t *txScope) Orders() ports.Repository         { return &orderRepository{tx: t.tx} }
func (t *txScope) Addresses() ports.AddressBook     { return &addressBook{tx: t.tx} }

type orderRepository struct {
	tx *gorm.DB
}

// Insert writes the header and items. A duplicate idempotency key from a
// concurrent request surfaces as ErrIdempotencyConflict.
func (r *orderRepository) Insert(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record, items := toRecords(order)
	if err := r.tx.WithContext(ctx).Create(&record).Error; err != nil {
		if platformpostgres.IsUniqueViolation(err) && platformpostgres.ViolatedConstraint(err) == idempotencyIndex {
			return ports.ErrIdempotencyConflict
		}
		return err
	}
	if len(items) > 0 {
		if err := r.tx.WithContext(ctx).Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetForUpdate takes a row lock on the order header for the rest of the transaction.
func (r *orderRepository) GetForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	var record orderRecord
	if err := r.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	orders, err := attachItems(ctx, r.tx, []orderRecord{record})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record, items := toRecords(order)
	result := r.tx.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", record.ID).
		UpdateColumns(map[string]any{
			"status":                      record.Status,
			"payment_status":              record.PaymentStatus,
			"payment_confirmation_status": record.PaymentConfirmationStatus,
			"updated_at":                  record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	for _, item := range items {
		if err := r.tx.WithContext(ctx).
			Model(&orderItemRecord{}).
			Where("id = ? AND order_id = ?", item.ID, item.OrderID).
			UpdateColumn("status", item.Status).Error; err != nil {
			return fmt.Errorf("update item %s: %w", item.ID, err)
		}
	}
	return nil
}

func (r *orderRepository) FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error) {
	var record orderRecord
	err := r.tx.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	orders, err := attachItems(ctx, r.tx, []orderRecord{record})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

type addressBook struct {
	tx *gorm.DB
}

// FindWalkIn returns the oldest walk-in placeholder of userID.
func (b *addressBook) FindWalkIn(ctx context.Context, userID string) (*domain.Address, error) {
	var record addressRecord
	err := b.tx.WithContext(ctx).
		Where("user_id = ? AND full_name = ?", userID, domain.WalkInFullName).
		Order("created_at").
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// CreateWalkIn relies on idx_addresses_walk_in. A concurrent checkout that
// inserted first wins and its row is read back once it commits.
func (b *addressBook) CreateWalkIn(ctx context.Context, candidate *domain.Address) (*domain.Address, error) {
	if candidate == nil {
		return nil, errors.New("address is nil")
	}
	record := toAddressRecord(candidate)
	result := b.tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 1 {
		return record.toDomain(), nil
	}
	existing, err := b.FindWalkIn(ctx, candidate.UserID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("walk-in address for user %s conflicted but is not visible", candidate.UserID)
	}
	return existing, nil
}

func (b *addressBook) Get(ctx context.Context, id string) (*domain.Address, error) {
	var record addressRecord
	if err := b.tx.WithContext(ctx).First(&record, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrAddressNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}
