package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Receipt is one ingestion attempt. Rows are insert-only; re-uploading the
// same file produces a new row.
type Receipt struct {
	ID            uuid.UUID       `db:"id"`
	CreatedAt     time.Time       `db:"created_at"`
	TenantID      *string         `db:"tenant_id"`
	UserID        *string         `db:"user_id"`
	FileName      string          `db:"file_name"`
	Mime          string          `db:"mime"`
	RawText       string          `db:"raw_text"`
	Fields        json.RawMessage `db:"fields"`
	Route         string          `db:"route"`
	LastRequestID string          `db:"last_request_id"`
}
