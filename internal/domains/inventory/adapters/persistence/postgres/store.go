package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/order-engine/internal/domains/inventory/domain"
	"github.com/Apurer/order-engine/internal/domains/inventory/ports"
	platformpostgres "github.com/Apurer/order-engine/internal/platform/postgres"
)

var (
	_ ports.Catalog       = (*Store)(nil)
	_ ports.LedgerSession = (*Store)(nil)
	_ ports.Ledger        = (*Ledger)(nil)
)

// productRecord maps the product aggregate to the products table.
type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:64"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	OfferPrice  decimal.Decimal `gorm:"column:offer_price;type:numeric(12,2)"`
	Stock       int             `gorm:"column:stock;check:chk_products_stock_non_negative,stock >= 0"`
	IsAvailable bool            `gorm:"column:is_available"`
	Barcode     *string         `gorm:"column:barcode;uniqueIndex"`
	Images      pq.StringArray  `gorm:"column:images;type:text[]"`
	Category    string          `gorm:"column:category;index"`
	SellerID    string          `gorm:"column:seller_id;index"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Store serves the product read path and opens ledger transactions.
type Store struct {
	db     *gorm.DB
	txOpts platformpostgres.TxOptions
}

// NewStore wires a PostgreSQL-backed product store. Caller manages DB lifecycle.
func NewStore(db *gorm.DB, txOpts platformpostgres.TxOptions) *Store {
	return &Store{db: db, txOpts: txOpts}
}

func (s *Store) InLedger(ctx context.Context, fn func(ctx context.Context, ledger ports.Ledger) error) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return platformpostgres.WithRetry(ctx, s.db, s.txOpts, func(tx *gorm.DB) error {
		return fn(ctx, NewLedger(tx))
	})
}

func (s *Store) ProductsByID(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	result := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var records []productRecord
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		result[records[i].ID] = records[i].toDomain()
	}
	return result, nil
}

func (s *Store) SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(product)
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":         record.Name,
				"description":  record.Description,
				"price":        record.Price,
				"offer_price":  record.OfferPrice,
				"stock":        record.Stock,
				"is_available": record.IsAvailable,
				"barcode":      record.Barcode,
				"images":       record.Images,
				"category":     record.Category,
				"seller_id":    record.SellerID,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	var saved productRecord
	if err := s.db.WithContext(ctx).First(&saved, "id = ?", record.ID).Error; err != nil {
		return nil, err
	}
	return saved.toDomain(), nil
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres product store not configured")
	}
	return nil
}

// Ledger mutates stock through an open transaction handle.
type Ledger struct {
	tx *gorm.DB
}

// NewLedger binds a ledger to tx. All calls share that transaction.
func NewLedger(tx *gorm.DB) *Ledger {
	return &Ledger{tx: tx}
}

func (l *Ledger) CheckAndReserve(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	product, err := l.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := product.CanReserve(quantity); err != nil {
		return nil, err
	}
	return product, nil
}

// Decrement issues one conditional UPDATE. Row locking in PostgreSQL re-checks
// the guard against the latest committed stock, so concurrent decrements of the
// last units cannot both succeed.
func (l *Ledger) Decrement(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	id := strings.TrimSpace(productID)
	result := l.tx.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumns(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := l.load(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (l *Ledger) Restock(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	id := strings.TrimSpace(productID)
	result := l.tx.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"stock":        gorm.Expr("stock + ?", quantity),
			"is_available": true,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrProductNotFound
	}
	return l.load(ctx, id)
}

func (l *Ledger) load(ctx context.Context, productID string) (*domain.Product, error) {
	var record productRecord
	if err := l.tx.WithContext(ctx).First(&record, "id = ?", strings.TrimSpace(productID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		OfferPrice:  product.OfferPrice,
		Stock:       product.Stock,
		IsAvailable: product.IsAvailable,
		Barcode:     product.Barcode,
		Images:      pq.StringArray(product.Images),
		Category:    product.Category,
		SellerID:    product.SellerID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	product := &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		OfferPrice:  r.OfferPrice,
		Stock:       r.Stock,
		IsAvailable: r.IsAvailable,
		Category:    r.Category,
		SellerID:    r.SellerID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Barcode != nil {
		barcode := *r.Barcode
		product.Barcode = &barcode
	}
	if len(r.Images) > 0 {
		product.Images = append([]string(nil), r.Images...)
	}
	return product
}
