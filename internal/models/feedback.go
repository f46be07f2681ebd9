package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Verdict string

const (
	VerdictAccepted  Verdict = "accepted"
	VerdictCorrected Verdict = "corrected"
)

type FeedbackEvent struct {
	ID        uuid.UUID       `db:"id"`
	CreatedAt time.Time       `db:"created_at"`
	RequestID *string         `db:"request_id"`
	FileName  string          `db:"file_name"`
	Verdict   Verdict         `db:"verdict"`
	Original  json.RawMessage `db:"original"`
	Corrected json.RawMessage `db:"corrected"`
}
