package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrEmptyDSN is returned when no connection string was configured.
var ErrEmptyDSN = errors.New("postgres DSN is empty")

// PoolOptions bounds the database/sql pool shared by the order and
// inventory stores.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// PoolOption tweaks PoolOptions.
type PoolOption func(*PoolOptions)

// WithMaxOpenConns caps concurrent connections. Every checkout holds one for
// the whole transaction.
func WithMaxOpenConns(n int) PoolOption {
	return func(o *PoolOptions) {
		if n > 0 {
			o.MaxOpenConns = n
		}
	}
}

// WithPingTimeout bounds the connectivity ping run by Connect.
func WithPingTimeout(d time.Duration) PoolOption {
	return func(o *PoolOptions) {
		if d > 0 {
			o.PingTimeout = d
		}
	}
}

// DefaultPoolOptions returns conservative pool limits.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// Connect opens a PostgreSQL connection via GORM, applies the pool limits and
// verifies connectivity. The returned func closes the pool.
func Connect(ctx context.Context, dsn string, opts ...PoolOption) (*gorm.DB, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, ErrEmptyDSN
	}
	pool := DefaultPoolOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&pool)
		}
	}
	// SQLSTATE codes must survive untranslated for ClassifyError.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pool.PingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return db, func() { _ = sqlDB.Close() }, nil
}
