package postgres

import (
	"errors"

	"gorm.io/gorm"
)

// Migrate creates or updates the products table from the adapter's own record.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}
	return db.AutoMigrate(&productRecord{})
}
