package dto

import "ustva-extractor/internal/einvoice"

type IngestRequest struct {
	FileName   string `json:"fileName" validate:"required,max=512"`
	Mime       string `json:"mime" validate:"required,max=255"`
	DataBase64 string `json:"dataBase64" validate:"required"`
	TenantID   string `json:"tenantId,omitempty" validate:"max=128"`
	UserID     string `json:"userId,omitempty" validate:"max=128"`
}

// OCRParseRequest carries text recognised on the client for a file that
// /ingest routed to the OCR path.
type OCRParseRequest struct {
	FileName  string `json:"fileName" validate:"required,max=512"`
	Text      string `json:"text" validate:"required"`
	RequestID string `json:"requestId,omitempty" validate:"max=128"`
	TenantID  string `json:"tenantId,omitempty" validate:"max=128"`
	UserID    string `json:"userId,omitempty" validate:"max=128"`
}

type IngestResponse struct {
	RequestID  string            `json:"requestId"`
	Route      string            `json:"route" example:"xml-cii"`
	Normalized *einvoice.Invoice `json:"normalized"`
	Hint       string            `json:"hint,omitempty"`
}
