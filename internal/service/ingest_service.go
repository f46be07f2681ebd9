package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"ustva-extractor/internal/dto"
	"ustva-extractor/internal/einvoice"
	"ustva-extractor/internal/models"
	"ustva-extractor/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity carries the per-request identifiers that are not part of the body.
// Header values are used only when the body leaves the field empty.
type Identity struct {
	RequestID string
	TenantID  string
	UserID    string
}

type IngestService struct {
	dispatcher *Dispatcher
	store      repository.Store
	logger     *zap.Logger
}

func NewIngestService(dispatcher *Dispatcher, store repository.Store, logger *zap.Logger) *IngestService {
	return &IngestService{
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// Ingest decodes an uploaded file, routes it and records the attempt.
// Only input errors are returned; persistence is best-effort.
func (s *IngestService) Ingest(ctx context.Context, req *dto.IngestRequest, id Identity) (*dto.IngestResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	data, err := decodeBase64(req.DataBase64)
	if err != nil {
		return nil, &ValidationError{Message: err.Error(), Err: err}
	}

	return s.IngestBytes(ctx, Upload{FileName: req.FileName, Mime: req.Mime, Data: data}, Identity{
		RequestID: id.RequestID,
		TenantID:  firstNonEmpty(req.TenantID, id.TenantID),
		UserID:    firstNonEmpty(req.UserID, id.UserID),
	}), nil
}

// IngestBytes routes already-decoded content. It is shared by the HTTP
// handler, the inbox watcher and the backfill command.
func (s *IngestService) IngestBytes(ctx context.Context, up Upload, id Identity) *dto.IngestResponse {
	requestID := id.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	out := s.dispatcher.Dispatch(ctx, up)

	s.logger.Info("Document ingested",
		zap.String("request_id", requestID),
		zap.String("file", up.FileName),
		zap.String("mime", up.Mime),
		zap.Int("size", len(up.Data)),
		zap.String("route", string(out.Route)),
	)

	s.persist(ctx, up.FileName, up.Mime, out, requestID, id)

	return &dto.IngestResponse{
		RequestID:  requestID,
		Route:      string(out.Route),
		Normalized: out.Invoice,
		Hint:       out.Hint,
	}
}

// IngestText runs the heuristic over text recognised on the client.
func (s *IngestService) IngestText(ctx context.Context, req *dto.OCRParseRequest, id Identity) (*dto.IngestResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(sanitizeUTF8(req.Text))
	if text == "" {
		return nil, invalid("text is required")
	}

	requestID := firstNonEmpty(req.RequestID, id.RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	out := Outcome{Route: RouteOCRLocal, Invoice: einvoice.ParseText(text), RawText: text}
	s.persist(ctx, req.FileName, "text/plain", out, requestID, Identity{
		TenantID: firstNonEmpty(req.TenantID, id.TenantID),
		UserID:   firstNonEmpty(req.UserID, id.UserID),
	})

	return &dto.IngestResponse{
		RequestID:  requestID,
		Route:      string(out.Route),
		Normalized: out.Invoice,
	}, nil
}

func (s *IngestService) persist(ctx context.Context, fileName, mime string, out Outcome, requestID string, id Identity) {
	if !s.store.Enabled() {
		return
	}

	fields, err := json.Marshal(out.Invoice)
	if err != nil {
		s.logger.Warn("Failed to encode normalized fields", zap.String("request_id", requestID), zap.Error(err))
		return
	}

	receipt := &models.Receipt{
		ID:            uuid.New(),
		CreatedAt:     time.Now().UTC(),
		TenantID:      optionalString(id.TenantID),
		UserID:        optionalString(id.UserID),
		FileName:      sanitizeUTF8(fileName),
		Mime:          mime,
		RawText:       out.RawText,
		Fields:        fields,
		Route:         string(out.Route),
		LastRequestID: requestID,
	}

	if err := s.store.SaveReceipt(ctx, receipt); err != nil {
		s.logger.Warn("Failed to persist receipt",
			zap.String("request_id", requestID),
			zap.String("file", fileName),
			zap.Error(err),
		)
	}
}

// decodeBase64 accepts standard and URL-safe alphabets, with or without
// padding, and an optional data URL prefix.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		if data, err := enc.DecodeString(s); err == nil {
			if len(data) == 0 {
				break
			}
			return data, nil
		}
	}
	return nil, ErrInvalidBase64
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
