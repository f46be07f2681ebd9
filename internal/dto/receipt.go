package dto

import (
	"encoding/json"
)

type ReceiptResponse struct {
	ID            string          `json:"id"`
	CreatedAt     string          `json:"createdAt"`
	TenantID      *string         `json:"tenantId"`
	UserID        *string         `json:"userId"`
	FileName      string          `json:"fileName"`
	Mime          string          `json:"mime"`
	Route         string          `json:"route"`
	RawText       string          `json:"rawText"`
	Fields        json.RawMessage `json:"fields" swaggertype:"object"`
	LastRequestID string          `json:"lastRequestId"`
}

type ReceiptCountResponse struct {
	Count int  `json:"count"`
	DB    bool `json:"db"`
}
