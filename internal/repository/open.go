package repository

import (
	"context"
	"fmt"

	"ustva-extractor/pkg/config"
	"ustva-extractor/pkg/postgres"
	"ustva-extractor/pkg/sqlite"

	"go.uber.org/zap"
)

// Open returns the store selected by cfg.Driver and applies the schema.
// DriverNone yields a NoopStore. A schema failure is logged rather than
// returned so that a temporarily unreachable Postgres does not stop startup.
func Open(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (Store, error) {
	var store Store

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		store = NewPostgresStore(pool, logger)
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		store = NewSQLiteStore(db, logger)
	case config.DriverNone, "":
		logger.Info("No database configured, receipts and feedback are not persisted")
		return NewNoopStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Warn("Failed to apply database schema", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	return store, nil
}
