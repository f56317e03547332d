package migrations

import (
	"gorm.io/gorm"

	inventorypostgres "github.com/Apurer/order-engine/internal/domains/inventory/adapters/persistence/postgres"
	orderpostgres "github.com/Apurer/order-engine/internal/domains/orders/adapters/persistence/postgres"
)

// Run applies the schema for the bounded contexts, inventory first. Each
// adapter migrates from the same records it reads and writes.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := inventorypostgres.Migrate(db); err != nil {
		return err
	}
	return orderpostgres.Migrate(db)
}
