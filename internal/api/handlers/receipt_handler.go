package handlers

import (
	"fmt"
	"strings"
	"time"

	"ustva-extractor/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReceiptHandler struct {
	receiptService *service.ReceiptService
	logger         *zap.Logger
}

func NewReceiptHandler(receiptService *service.ReceiptService, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		logger:         logger,
	}
}

// Recent godoc
// @Summary List recent receipts
// @Description Newest ingested receipts first. Empty when no database is configured.
// @Tags receipts
// @Produce json
// @Param limit query int false "Number of receipts (1-100)" default(10)
// @Success 200 {array} dto.ReceiptResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /receipts/recent [get]
func (h *ReceiptHandler) Recent(c *fiber.Ctx) error {
	receipts, err := h.receiptService.Recent(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return fail(c, h.logger, err, "Failed to list receipts")
	}

	return c.JSON(receipts)
}

// Count godoc
// @Summary Count stored receipts
// @Tags receipts
// @Produce json
// @Success 200 {object} dto.ReceiptCountResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /receipts/count [get]
func (h *ReceiptHandler) Count(c *fiber.Ctx) error {
	count, err := h.receiptService.Count(c.UserContext())
	if err != nil {
		return fail(c, h.logger, err, "Failed to count receipts")
	}

	return c.JSON(count)
}

// Export godoc
// @Summary Export recent receipts
// @Description Recent receipts as an XLSX workbook or a semicolon separated CSV file.
// @Tags receipts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param format query string false "xlsx or csv" default(xlsx)
// @Param limit query int false "Number of receipts (1-100)" default(10)
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /receipts/export [get]
func (h *ReceiptHandler) Export(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", "xlsx"))
	limit := c.QueryInt("limit", 0)

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case "xlsx":
		data, err = h.receiptService.ExportXLSX(c.UserContext(), limit)
		contentType = xlsxContentType
	case "csv":
		data, err = h.receiptService.ExportCSV(c.UserContext(), limit)
		contentType = "text/csv; charset=utf-8"
	default:
		return badRequest(c, "format must be one of: xlsx, csv")
	}
	if err != nil {
		return fail(c, h.logger, err, "Failed to export receipts")
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="belege-%s.%s"`, time.Now().Format("2006-01-02"), format))
	return c.Send(data)
}
