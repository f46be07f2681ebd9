package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"ustva-extractor/internal/dto"
	"ustva-extractor/internal/repository"

	"go.uber.org/zap"
)

func newTestIngestService(store repository.Store) *IngestService {
	return NewIngestService(newTestDispatcher(), store, zap.NewNop())
}

func TestIngestValidation(t *testing.T) {
	svc := newTestIngestService(&memStore{})

	_, err := svc.Ingest(context.Background(), &dto.IngestRequest{Mime: "application/xml"}, Identity{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error got %v", err)
	}
	if !strings.Contains(verr.Message, "fileName is required") || !strings.Contains(verr.Message, "dataBase64 is required") {
		t.Fatalf("unexpected message %q", verr.Message)
	}

	_, err = svc.Ingest(context.Background(), &dto.IngestRequest{
		FileName:   "rechnung.xml",
		Mime:       "application/xml",
		DataBase64: "@@@ not base64 @@@",
	}, Identity{})
	if !errors.Is(err, ErrInvalidBase64) {
		t.Fatalf("expected ErrInvalidBase64 got %v", err)
	}
	if !errors.As(err, &verr) {
		t.Fatalf("expected base64 failure to be a validation error")
	}
}

func TestIngestPersistsReceipt(t *testing.T) {
	store := &memStore{}
	svc := newTestIngestService(store)

	res, err := svc.Ingest(context.Background(), &dto.IngestRequest{
		FileName:   "rechnung.xml",
		Mime:       "application/xml",
		DataBase64: base64.StdEncoding.EncodeToString(fixture(t, "cii_minimal.xml")),
		UserID:     "user-from-body",
	}, Identity{RequestID: "req-1", TenantID: "tenant-a", UserID: "user-from-header"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.RequestID != "req-1" || res.Route != "xml-cii" || res.Hint != "" {
		t.Fatalf("unexpected response %+v", res)
	}
	if res.Normalized.Gross.String() != "105.91" {
		t.Fatalf("expected gross 105.91 got %s", res.Normalized.Gross)
	}

	saved := store.savedReceipts()
	if len(saved) != 1 {
		t.Fatalf("expected 1 receipt got %d", len(saved))
	}
	r := saved[0]
	if r.Route != "xml-cii" || r.LastRequestID != "req-1" || r.Mime != "application/xml" {
		t.Fatalf("unexpected receipt %+v", r)
	}
	if r.TenantID == nil || *r.TenantID != "tenant-a" {
		t.Fatalf("expected tenant from header got %v", r.TenantID)
	}
	if r.UserID == nil || *r.UserID != "user-from-body" {
		t.Fatalf("expected user from body got %v", r.UserID)
	}
	if !bytes.Contains(r.Fields, []byte(`"gross":105.91`)) {
		t.Fatalf("expected gross in stored fields got %s", r.Fields)
	}
	if !strings.Contains(r.RawText, "CrossIndustryInvoice") {
		t.Fatalf("expected raw xml to be stored")
	}
}

func TestIngestGeneratesRequestID(t *testing.T) {
	store := &memStore{}
	svc := newTestIngestService(store)

	res := svc.IngestBytes(context.Background(), Upload{FileName: "foto.jpg", Mime: "image/jpeg", Data: []byte{0xff, 0xd8}}, Identity{})
	if len(res.RequestID) != 36 {
		t.Fatalf("expected generated uuid got %q", res.RequestID)
	}
	if res.Route != "needs_ocr" || res.Normalized == nil || res.Hint == "" {
		t.Fatalf("unexpected response %+v", res)
	}
	if r := store.savedReceipts()[0]; r.TenantID != nil || r.UserID != nil {
		t.Fatalf("expected no identity got %v %v", r.TenantID, r.UserID)
	}
}

func TestIngestSurvivesStoreFailure(t *testing.T) {
	svc := newTestIngestService(&memStore{failWrite: true})

	res, err := svc.Ingest(context.Background(), &dto.IngestRequest{
		FileName:   "invoice.xml",
		Mime:       "text/xml",
		DataBase64: base64.StdEncoding.EncodeToString(fixture(t, "ubl_minimal.xml")),
	}, Identity{})
	if err != nil {
		t.Fatalf("store failure must not fail ingest: %v", err)
	}
	if res.Route != "xml-ubl" {
		t.Fatalf("expected xml-ubl got %s", res.Route)
	}

	noop := newTestIngestService(repository.NewNoopStore())
	if _, err := noop.Ingest(context.Background(), &dto.IngestRequest{
		FileName:   "invoice.xml",
		Mime:       "text/xml",
		DataBase64: base64.StdEncoding.EncodeToString(fixture(t, "ubl_minimal.xml")),
	}, Identity{}); err != nil {
		t.Fatalf("unexpected error without store: %v", err)
	}
}

func TestIngestText(t *testing.T) {
	store := &memStore{}
	svc := newTestIngestService(store)

	res, err := svc.IngestText(context.Background(), &dto.OCRParseRequest{
		FileName:  "kassenbon.jpg",
		Text:      "Bäckerei Korn GmbH\n12.09.2025\nNetto 10,00 €\nMwSt 0,70 €\nSumme\nGesamt 10,70 €",
		RequestID: "req-ocr",
	}, Identity{TenantID: "tenant-b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Route != "ocr-local" || res.RequestID != "req-ocr" || res.Hint != "" {
		t.Fatalf("unexpected response %+v", res)
	}
	inv := res.Normalized
	if *inv.Date != "2025-09-12" || inv.Gross.String() != "10.70" || inv.VAT.String() != "0.70" {
		t.Fatalf("unexpected invoice %+v", inv)
	}

	r := store.savedReceipts()[0]
	if r.Mime != "text/plain" || r.Route != "ocr-local" || *r.TenantID != "tenant-b" {
		t.Fatalf("unexpected receipt %+v", r)
	}

	if _, err := svc.IngestText(context.Background(), &dto.OCRParseRequest{FileName: "x.jpg", Text: " \n\t"}, Identity{}); err == nil {
		t.Fatalf("expected blank text to be rejected")
	}
}

func TestDecodeBase64(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"aGVsbG8=", "hello"},
		{"aGVs\nbG8=\n", "hello"},
		{"aGVsbG8", "hello"},
		{"data:application/pdf;base64,aGVsbG8=", "hello"},
		{"-_8=", "\xfb\xff"},
	}
	for _, tc := range cases {
		got, err := decodeBase64(tc.in)
		if err != nil {
			t.Fatalf("decodeBase64(%q): unexpected error %v", tc.in, err)
		}
		if string(got) != tc.want {
			t.Fatalf("decodeBase64(%q): expected %q got %q", tc.in, tc.want, got)
		}
	}

	for _, in := range []string{"", "   ", "!!!!"} {
		if _, err := decodeBase64(in); !errors.Is(err, ErrInvalidBase64) {
			t.Fatalf("decodeBase64(%q): expected ErrInvalidBase64 got %v", in, err)
		}
	}
}
