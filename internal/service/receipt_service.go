package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ustva-extractor/internal/dto"
	"ustva-extractor/internal/einvoice"
	"ustva-extractor/internal/models"
	"ustva-extractor/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Belege"

var exportHeaders = []string{"Datum", "Lieferant", "Datei", "Route", "Währung", "Netto", "USt", "Brutto"}

type ReceiptService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewReceiptService(store repository.Store, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		store:  store,
		logger: logger,
	}
}

// Recent lists the newest receipts. limit is clamped with ClampLimit; without
// a store the list is empty.
func (s *ReceiptService) Recent(ctx context.Context, limit int) ([]dto.ReceiptResponse, error) {
	receipts, err := s.list(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReceiptResponse, len(receipts))
	for i, r := range receipts {
		out[i] = dto.ReceiptResponse{
			ID:            r.ID.String(),
			CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
			TenantID:      r.TenantID,
			UserID:        r.UserID,
			FileName:      r.FileName,
			Mime:          r.Mime,
			Route:         r.Route,
			RawText:       r.RawText,
			Fields:        r.Fields,
			LastRequestID: r.LastRequestID,
		}
	}
	return out, nil
}

func (s *ReceiptService) Count(ctx context.Context) (*dto.ReceiptCountResponse, error) {
	if !s.store.Enabled() {
		return &dto.ReceiptCountResponse{Count: 0, DB: false}, nil
	}
	count, err := s.store.CountReceipts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count receipts: %w", err)
	}
	return &dto.ReceiptCountResponse{Count: count, DB: true}, nil
}

// ExportXLSX renders the newest receipts as a workbook with one row per receipt.
func (s *ReceiptService) ExportXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()
	rows, err := s.exportRows(ctx, limit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}

	for r, row := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, r+2)
			_ = f.SetCellValue(exportSheet, cell, v)
		}
		write(1, row.date)
		write(2, row.supplier)
		write(3, row.fileName)
		write(4, row.route)
		write(5, row.currency)
		for col, a := range []*einvoice.Amount{row.net, row.vat, row.gross} {
			if a != nil {
				v, _ := a.Float64()
				write(6+col, v)
			}
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 12)
	_ = f.SetColWidth(exportSheet, "B", "C", 32)
	_ = f.SetColWidth(exportSheet, "D", "D", 16)
	_ = f.SetColWidth(exportSheet, "F", "H", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Receipts exported",
		zap.String("format", "xlsx"),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", time.Since(start)),
	)
	return buf.Bytes(), nil
}

// ExportCSV renders the same rows as ExportXLSX as semicolon-separated text
// with German decimal commas.
func (s *ReceiptService) ExportCSV(ctx context.Context, limit int) ([]byte, error) {
	rows, err := s.exportRows(ctx, limit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.date, row.supplier, row.fileName, row.route, row.currency,
			germanAmount(row.net), germanAmount(row.vat), germanAmount(row.gross),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	s.logger.Info("Receipts exported", zap.String("format", "csv"), zap.Int("rows", len(rows)))
	return buf.Bytes(), nil
}

type exportRow struct {
	date, supplier, fileName, route, currency string
	net, vat, gross                           *einvoice.Amount
}

func (s *ReceiptService) exportRows(ctx context.Context, limit int) ([]exportRow, error) {
	receipts, err := s.list(ctx, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]exportRow, 0, len(receipts))
	for _, r := range receipts {
		var inv einvoice.Invoice
		if len(r.Fields) > 0 {
			if err := json.Unmarshal(r.Fields, &inv); err != nil {
				s.logger.Warn("Skipping unreadable receipt fields", zap.String("receipt_id", r.ID.String()), zap.Error(err))
			}
		}
		rows = append(rows, exportRow{
			date:     deref(inv.Date),
			supplier: deref(inv.Supplier),
			fileName: r.FileName,
			route:    r.Route,
			currency: deref(inv.Currency),
			net:      inv.Net,
			vat:      inv.VAT,
			gross:    inv.Gross,
		})
	}
	return rows, nil
}

func (s *ReceiptService) list(ctx context.Context, limit int) ([]*models.Receipt, error) {
	if !s.store.Enabled() {
		return []*models.Receipt{}, nil
	}
	receipts, err := s.store.ListRecentReceipts(ctx, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}

func germanAmount(a *einvoice.Amount) string {
	if a == nil {
		return ""
	}
	return strings.Replace(a.String(), ".", ",", 1)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
