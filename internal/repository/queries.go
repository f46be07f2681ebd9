package repository

import (
	"fmt"
	"time"

	"ustva-extractor/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var receiptColumns = []string{
	"id", "created_at", "tenant_id", "user_id", "file_name", "mime", "raw_text", "fields", "route", "last_request_id",
}

var feedbackColumns = []string{
	"id", "created_at", "request_id", "file_name", "verdict", "original", "corrected",
}

// dialect captures what differs between the Postgres and SQLite stores: the
// placeholder style and how JSON and timestamps are bound.
type dialect struct {
	placeholder squirrel.PlaceholderFormat
	jsonArg     func([]byte) any
	timeArg     func(time.Time) any
}

func (d dialect) insertReceipt(r *models.Receipt) (string, []any, error) {
	return squirrel.Insert("receipts").
		Columns(receiptColumns...).
		Values(
			r.ID.String(), d.timeArg(r.CreatedAt), r.TenantID, r.UserID, r.FileName, r.Mime,
			r.RawText, d.jsonArg(r.Fields), r.Route, r.LastRequestID,
		).
		PlaceholderFormat(d.placeholder).
		ToSql()
}

func (d dialect) insertFeedback(f *models.FeedbackEvent) (string, []any, error) {
	return squirrel.Insert("feedback_events").
		Columns(feedbackColumns...).
		Values(
			f.ID.String(), d.timeArg(f.CreatedAt), f.RequestID, f.FileName, string(f.Verdict),
			d.jsonArg(f.Original), d.jsonArg(f.Corrected),
		).
		PlaceholderFormat(d.placeholder).
		ToSql()
}

func (d dialect) selectRecentReceipts(limit int) (string, []any, error) {
	return squirrel.Select(receiptColumns...).
		From("receipts").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(d.placeholder).
		ToSql()
}

func (d dialect) countReceipts() (string, []any, error) {
	return squirrel.Select("count(*)").
		From("receipts").
		PlaceholderFormat(d.placeholder).
		ToSql()
}

// rowScanner is satisfied by pgx.Row(s) and *sql.Row(s).
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*models.Receipt, error) {
	var (
		r         models.Receipt
		id        string
		createdAt any
		fields    []byte
		mime      *string
		rawText   *string
		route     *string
		requestID *string
	)
	if err := row.Scan(&id, &createdAt, &r.TenantID, &r.UserID, &r.FileName, &mime, &rawText, &fields, &route, &requestID); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("receipt id %q: %w", id, err)
	}
	r.ID = parsed

	if r.CreatedAt, err = asTime(createdAt); err != nil {
		return nil, fmt.Errorf("receipt %s created_at: %w", id, err)
	}
	if len(fields) > 0 {
		r.Fields = append([]byte(nil), fields...)
	}
	r.Mime = deref(mime)
	r.RawText = deref(rawText)
	r.Route = deref(route)
	r.LastRequestID = deref(requestID)
	return &r, nil
}

// asTime converts a created_at column value. Postgres yields time.Time, SQLite
// the text written by sqliteTime.
func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseSQLiteTime(t)
	case []byte:
		return parseSQLiteTime(string(t))
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unexpected type %T", v)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
