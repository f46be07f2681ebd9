package handlers

import (
	"ustva-extractor/internal/dto"
	"ustva-extractor/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	logger          *zap.Logger
}

func NewFeedbackHandler(feedbackService *service.FeedbackService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// Submit godoc
// @Summary Submit extraction feedback
// @Description Record whether the user accepted or corrected a normalized result.
// @Description Every call appends a new event.
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body dto.FeedbackRequest true "Verdict with original and corrected values"
// @Success 200 {object} dto.FeedbackResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.feedbackService.Submit(c.UserContext(), &req)
	if err != nil {
		return fail(c, h.logger, err, "Failed to record feedback")
	}

	return c.JSON(res)
}
