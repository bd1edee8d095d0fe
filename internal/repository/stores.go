// Package repository selects and opens the configured storage backend.
package repository

import (
	"context"
	"log/slog"

	"eventhub/config"
	"eventhub/internal/domain"
	"eventhub/internal/repository/mongodb"
	"eventhub/internal/repository/postgres"
)

// Stores bundles the repositories of one backend with its lifecycle hooks.
type Stores struct {
	Events   domain.EventRepository
	Bookings domain.BookingRepository
	Ping     func(ctx context.Context) error
	Close    func(ctx context.Context) error
}

// Open returns the stores for cfg.StoreDriver. Postgres is migrated before it is returned;
// MongoDB connects on first use.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	if cfg.StoreDriver == config.StorePostgres {
		db, err := postgres.Open(cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		applied, err := postgres.Migrate(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("postgres ready", "migrations_applied", applied)
		return &Stores{
			Events:   postgres.NewEventRepository(db),
			Bookings: postgres.NewBookingRepository(db),
			Ping:     db.PingContext,
			Close:    func(context.Context) error { return db.Close() },
		}, nil
	}

	connector := mongodb.NewConnector(cfg.MongoURI, cfg.MongoDatabase)
	return &Stores{
		Events:   mongodb.NewEventRepository(connector),
		Bookings: mongodb.NewBookingRepository(connector),
		Ping:     connector.Ping,
		Close:    connector.Close,
	}, nil
}
