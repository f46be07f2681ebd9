package handlers

import (
	"ustva-extractor/internal/dto"
	"ustva-extractor/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type IngestHandler struct {
	ingestService *service.IngestService
	logger        *zap.Logger
}

func NewIngestHandler(ingestService *service.IngestService, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// Ingest godoc
// @Summary Ingest a document
// @Description Detect the format of an uploaded invoice or receipt (XRechnung, ZUGFeRD/Factur-X PDF, image)
// @Description and normalize date, supplier, currency and amounts. Documents without machine-readable
// @Description data are routed to the OCR path and returned with a hint.
// @Tags ingest
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant label stored with the receipt"
// @Param X-User-ID header string false "User label stored with the receipt"
// @Param request body dto.IngestRequest true "Base64 encoded document"
// @Success 200 {object} dto.IngestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Router /ingest [post]
func (h *IngestHandler) Ingest(c *fiber.Ctx) error {
	var req dto.IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.ingestService.Ingest(c.UserContext(), &req, identity(c))
	if err != nil {
		return fail(c, h.logger, err, "Failed to ingest document")
	}

	return c.JSON(res)
}

// ParseText godoc
// @Summary Normalize OCR text
// @Description Run the receipt text heuristic over text recognised on the client
// @Description for a document that /ingest routed to the OCR path.
// @Tags ingest
// @Accept json
// @Produce json
// @Param request body dto.OCRParseRequest true "Recognised text"
// @Success 200 {object} dto.IngestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /ocr/parse [post]
func (h *IngestHandler) ParseText(c *fiber.Ctx) error {
	var req dto.OCRParseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.ingestService.IngestText(c.UserContext(), &req, identity(c))
	if err != nil {
		return fail(c, h.logger, err, "Failed to parse text")
	}

	return c.JSON(res)
}
