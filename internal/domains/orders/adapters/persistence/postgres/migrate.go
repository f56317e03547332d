package postgres

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/order-engine/internal/domains/orders/domain"
)

const walkInIndex = "idx_addresses_walk_in"

// Migrate creates the address and order tables. The partial index keeps one
// walk-in placeholder per user even when two counter sales race to create it.
// Products must exist first; see the inventory adapter's Migrate.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}
	if err := db.AutoMigrate(&addressRecord{}, &orderRecord{}, &orderItemRecord{}); err != nil {
		return err
	}
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS " + walkInIndex +
		" ON addresses (user_id) WHERE full_name = " + pq.QuoteLiteral(domain.WalkInFullName)).Error
}
