package postgres

import (
	"context"
	"fmt"

	"ustva-extractor/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewPool creates the connection pool. A failed initial ping is logged but not
// fatal: the pool reconnects lazily and /healthz reports the state.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "ustva-extractor"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Warn("Database ping failed, continuing without a live connection",
			zap.String("host", poolConfig.ConnConfig.Host),
			zap.Error(err),
		)
		return pool, nil
	}

	logger.Info("Database connection established",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database),
	)

	return pool, nil
}
