package dto

import "encoding/json"

type FeedbackRequest struct {
	RequestID string          `json:"requestId,omitempty" validate:"max=128"`
	FileName  string          `json:"fileName" validate:"required,max=512"`
	Verdict   string          `json:"verdict" validate:"required,oneof=accepted corrected"`
	Original  json.RawMessage `json:"original" validate:"required" swaggertype:"object"`
	Corrected json.RawMessage `json:"corrected,omitempty" swaggertype:"object"`
	Timestamp string          `json:"timestamp" validate:"required"`
}

type FeedbackResponse struct {
	OK        bool `json:"ok"`
	Persisted bool `json:"persisted"`
}
