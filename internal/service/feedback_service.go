package service

import (
	"bytes"
	"context"
	"time"

	"ustva-extractor/internal/dto"
	"ustva-extractor/internal/models"
	"ustva-extractor/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FeedbackService struct {
	store  repository.Store
	schema *InvoiceSchema
	logger *zap.Logger
}

func NewFeedbackService(store repository.Store, schema *InvoiceSchema, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		store:  store,
		schema: schema,
		logger: logger,
	}
}

// Submit records the user's verdict on an extraction. Submissions are not
// deduplicated. Persisted is false when no store is configured or the
// insert failed.
func (s *FeedbackService) Submit(ctx context.Context, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.schema.Validate(req.Original); err != nil {
		return nil, invalid("original: %v", err)
	}

	corrected := req.Corrected
	if isJSONNull(corrected) {
		corrected = nil
	}
	if corrected != nil {
		if err := s.schema.Validate(corrected); err != nil {
			return nil, invalid("corrected: %v", err)
		}
	}

	if !s.store.Enabled() {
		return &dto.FeedbackResponse{OK: true, Persisted: false}, nil
	}

	event := &models.FeedbackEvent{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		RequestID: optionalString(req.RequestID),
		FileName:  sanitizeUTF8(req.FileName),
		Verdict:   models.Verdict(req.Verdict),
		Original:  req.Original,
		Corrected: corrected,
	}

	if err := s.store.SaveFeedback(ctx, event); err != nil {
		s.logger.Warn("Failed to persist feedback",
			zap.String("request_id", req.RequestID),
			zap.String("verdict", req.Verdict),
			zap.Error(err),
		)
		return &dto.FeedbackResponse{OK: true, Persisted: false}, nil
	}

	s.logger.Info("Feedback recorded",
		zap.String("feedback_id", event.ID.String()),
		zap.String("request_id", req.RequestID),
		zap.String("verdict", req.Verdict),
	)
	return &dto.FeedbackResponse{OK: true, Persisted: true}, nil
}

func isJSONNull(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
