package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventhub/internal/domain"
	"eventhub/migrations"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Open returns a pool for databaseURL. database/sql connects lazily and shares the pool
// across goroutines, so no connection is made here.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %v", domain.ErrStorageUnavailable, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Migrate applies the embedded schema migrations and returns how many were applied.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: run migrations: %v", domain.ErrStorageUnavailable, err)
	}
	return len(results), nil
}
