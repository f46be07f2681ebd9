package repository

import (
	"context"
	"fmt"
	"time"

	"ustva-extractor/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var postgresDialect = dialect{
	placeholder: squirrel.Dollar,
	jsonArg: func(b []byte) any {
		if len(b) == 0 {
			return nil
		}
		return b
	},
	timeArg: func(t time.Time) any { return t },
}

type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresStore(db *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

func (s *PostgresStore) Enabled() bool { return true }

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveReceipt(ctx context.Context, r *models.Receipt) error {
	sql, args, err := postgresDialect.insertReceipt(r)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, sql, args...)
	return err
}

func (s *PostgresStore) SaveFeedback(ctx context.Context, f *models.FeedbackEvent) error {
	sql, args, err := postgresDialect.insertFeedback(f)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, sql, args...)
	return err
}

func (s *PostgresStore) ListRecentReceipts(ctx context.Context, limit int) ([]*models.Receipt, error) {
	sql, args, err := postgresDialect.selectRecentReceipts(limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := make([]*models.Receipt, 0, limit)
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}

	return receipts, rows.Err()
}

func (s *PostgresStore) CountReceipts(ctx context.Context) (int, error) {
	sql, args, err := postgresDialect.countReceipts()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}
