package repository

import (
	"context"
	"errors"

	"ustva-extractor/internal/models"
)

// ErrNoStore is returned by read operations of the no-op store.
var ErrNoStore = errors.New("no store configured")

// Store persists ingestion records and feedback events. Implementations are
// safe for concurrent use.
type Store interface {
	// Enabled reports whether writes reach a database.
	Enabled() bool
	Ping(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	SaveReceipt(ctx context.Context, r *models.Receipt) error
	SaveFeedback(ctx context.Context, f *models.FeedbackEvent) error

	// ListRecentReceipts returns up to limit receipts, newest first.
	ListRecentReceipts(ctx context.Context, limit int) ([]*models.Receipt, error)
	CountReceipts(ctx context.Context) (int, error)

	Close()
}

// NoopStore is used when no database is configured. Writes succeed without
// effect and reads return nothing.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (NoopStore) Enabled() bool                      { return false }
func (NoopStore) Ping(context.Context) error         { return ErrNoStore }
func (NoopStore) EnsureSchema(context.Context) error { return nil }

func (NoopStore) SaveReceipt(context.Context, *models.Receipt) error        { return nil }
func (NoopStore) SaveFeedback(context.Context, *models.FeedbackEvent) error { return nil }

func (NoopStore) ListRecentReceipts(context.Context, int) ([]*models.Receipt, error) {
	return []*models.Receipt{}, nil
}

func (NoopStore) CountReceipts(context.Context) (int, error) { return 0, nil }

func (NoopStore) Close() {}
