package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ustva-extractor/internal/models"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// sqliteTimeLayout is fixed-width so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000"

var sqliteDialect = dialect{
	placeholder: squirrel.Question,
	jsonArg: func(b []byte) any {
		if len(b) == 0 {
			return nil
		}
		return string(b)
	},
	timeArg: func(t time.Time) any { return sqliteTime(t) },
}

func sqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(sqliteTimeLayout, s, time.UTC)
	if err != nil {
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

// SQLiteStore is the single-file store for local and desktop deployments.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteStore(db *sql.DB, logger *zap.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:     db,
		logger: logger,
	}
}

func (s *SQLiteStore) Enabled() bool { return true }

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveReceipt(ctx context.Context, r *models.Receipt) error {
	query, args, err := sqliteDialect.insertReceipt(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLiteStore) SaveFeedback(ctx context.Context, f *models.FeedbackEvent) error {
	query, args, err := sqliteDialect.insertFeedback(f)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLiteStore) ListRecentReceipts(ctx context.Context, limit int) ([]*models.Receipt, error) {
	query, args, err := sqliteDialect.selectRecentReceipts(limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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

func (s *SQLiteStore) CountReceipts(ctx context.Context) (int, error) {
	query, args, err := sqliteDialect.countReceipts()
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("Failed to close sqlite database", zap.Error(err))
	}
}
