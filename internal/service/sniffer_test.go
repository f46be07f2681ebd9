package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestDispatchXMLRoutes(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	cases := []struct {
		name    string
		upload  Upload
		route   Route
		gross   string
		net     string
		hasHint bool
	}{
		{
			name:   "cii by mime",
			upload: Upload{FileName: "rechnung", Mime: "application/xml", Data: fixture(t, "cii_minimal.xml")},
			route:  RouteXMLCII,
			gross:  "105.91",
			net:    "89.00",
		},
		{
			name:   "ubl by extension",
			upload: Upload{FileName: "invoice.XML", Mime: "application/octet-stream", Data: fixture(t, "ubl_minimal.xml")},
			route:  RouteXMLUBL,
			gross:  "105.91",
			net:    "89.00",
		},
		{
			name:   "ubl sniffed from content",
			upload: Upload{FileName: "upload", Mime: "", Data: fixture(t, "ubl_wrapped.xml")},
			route:  RouteXMLUBL,
			gross:  "37.45",
			net:    "35.00",
		},
		{
			name: "cii element not at the root",
			upload: Upload{FileName: "wrapped.xml", Mime: "text/xml", Data: []byte(
				`<Envelope><rsm:CrossIndustryInvoice xmlns:rsm="urn:x"/></Envelope>`)},
			route:   RouteNeedsOCR,
			hasHint: true,
		},
		{
			name:    "unrelated xml root",
			upload:  Upload{FileName: "order.xml", Mime: "text/xml", Data: []byte(`<Order><ID>1</ID></Order>`)},
			route:   RouteNeedsOCR,
			hasHint: true,
		},
		{
			name:    "malformed xml",
			upload:  Upload{FileName: "broken.xml", Mime: "text/xml", Data: []byte(`<Invoice><IssueDate>`)},
			route:   RouteNeedsOCR,
			hasHint: true,
		},
		{
			name:    "image without fallback",
			upload:  Upload{FileName: "scan.jpg", Mime: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}},
			route:   RouteNeedsOCR,
			hasHint: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := d.Dispatch(ctx, tc.upload)
			if out.Route != tc.route {
				t.Fatalf("expected route %s got %s", tc.route, out.Route)
			}
			if out.Invoice == nil {
				t.Fatalf("invoice must never be nil")
			}
			if tc.gross != "" && (out.Invoice.Gross == nil || out.Invoice.Gross.String() != tc.gross) {
				t.Fatalf("expected gross %s got %v", tc.gross, out.Invoice.Gross)
			}
			if tc.net != "" && (out.Invoice.Net == nil || out.Invoice.Net.String() != tc.net) {
				t.Fatalf("expected net %s got %v", tc.net, out.Invoice.Net)
			}
			if tc.hasHint != (out.Hint != "") {
				t.Fatalf("unexpected hint %q for route %s", out.Hint, out.Route)
			}
		})
	}
}

func TestDispatchNeedsOCRHint(t *testing.T) {
	out := newTestDispatcher().Dispatch(context.Background(), Upload{FileName: "foto.png", Mime: "image/png", Data: []byte("x")})
	if out.Hint != "No XML detected – use OCR path" {
		t.Fatalf("unexpected hint %q", out.Hint)
	}
	if !out.Invoice.Empty() {
		t.Fatalf("expected empty invoice got %+v", out.Invoice)
	}
}

func TestDispatchPDFWithoutAttachment(t *testing.T) {
	d := newTestDispatcher()
	for name, data := range map[string][]byte{
		"garbage": []byte("%PDF-1.4 this is not really a pdf"),
		"plain":   buildPDF(nil),
	} {
		out := d.Dispatch(context.Background(), Upload{FileName: name + ".pdf", Mime: "application/pdf", Data: data})
		if out.Route != RoutePDFNoXML {
			t.Fatalf("%s: expected pdf-no-xml got %s", name, out.Route)
		}
		if out.Hint != "PDF without embedded XML – use OCR path" {
			t.Fatalf("%s: unexpected hint %q", name, out.Hint)
		}
	}
}

func TestDispatchZUGFeRD(t *testing.T) {
	d := newTestDispatcher()

	pdf := buildPDF(map[string][]byte{"factur-x.xml": fixture(t, "cii_minimal.xml")})
	out := d.Dispatch(context.Background(), Upload{FileName: "rechnung.pdf", Mime: "application/pdf", Data: pdf})
	if out.Route != RoutePDFZugferdCII {
		t.Fatalf("expected pdf-zugferd-cii got %s", out.Route)
	}
	if out.Invoice.Gross == nil || out.Invoice.Gross.String() != "105.91" {
		t.Fatalf("expected gross 105.91 got %v", out.Invoice.Gross)
	}
	if out.Hint != "" {
		t.Fatalf("expected no hint got %q", out.Hint)
	}

	pdf = buildPDF(map[string][]byte{"xrechnung.xml": fixture(t, "ubl_minimal.xml")})
	out = d.Dispatch(context.Background(), Upload{FileName: "upload", Mime: "", Data: pdf})
	if out.Route != RoutePDFZugferdUBL {
		t.Fatalf("expected pdf-zugferd-ubl got %s", out.Route)
	}
	if *out.Invoice.Supplier != "Büro Express GmbH" {
		t.Fatalf("unexpected supplier %s", *out.Invoice.Supplier)
	}
}

type stubRecognizer struct {
	text string
	err  error
}

func (s stubRecognizer) PDFText(context.Context, []byte) (string, error)   { return s.text, s.err }
func (s stubRecognizer) ImageText(context.Context, []byte) (string, error) { return s.text, s.err }

func TestDispatchServerSideTextFallback(t *testing.T) {
	logger := zap.NewNop()
	d := NewDispatcher(NewAttachmentExtractor(logger), stubRecognizer{text: "Muster GmbH\nGesamt 119,00 €\nUSt 19,00 €"}, logger)

	out := d.Dispatch(context.Background(), Upload{FileName: "scan.pdf", Mime: "application/pdf", Data: buildPDF(nil)})
	if out.Route != RouteOCRText {
		t.Fatalf("expected ocr-text got %s", out.Route)
	}
	if out.Invoice.Net == nil || out.Invoice.Net.String() != "100.00" {
		t.Fatalf("expected net 100.00 got %v", out.Invoice.Net)
	}
	if out.RawText == "" || out.Hint == "" {
		t.Fatalf("expected raw text and hint got %+v", out)
	}

	failing := NewDispatcher(NewAttachmentExtractor(logger), stubRecognizer{err: errors.New("tesseract missing")}, logger)
	out = failing.Dispatch(context.Background(), Upload{FileName: "scan.png", Mime: "image/png", Data: []byte{1}})
	if out.Route != RouteNeedsOCR {
		t.Fatalf("expected degraded needs_ocr got %s", out.Route)
	}

	out = d.Dispatch(context.Background(), Upload{FileName: "beleg.txt", Mime: "text/plain", Data: []byte("Rechnung von Muster\nBrutto 11,90 EUR")})
	if out.Route != RouteOCRText || out.Invoice.Gross.String() != "11.90" {
		t.Fatalf("expected plain text heuristic got %s %v", out.Route, out.Invoice.Gross)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		up   Upload
		want uploadKind
	}{
		{Upload{FileName: "a.pdf", Mime: "application/xml"}, kindPDF},
		{Upload{FileName: "a", Mime: "application/vnd.x+xml"}, kindXML},
		{Upload{FileName: "a", Mime: "image/heic"}, kindImage},
		{Upload{FileName: "a", Mime: "application/zip", Data: []byte("%PDF-1.7")}, kindOther},
		{Upload{FileName: "a", Mime: "application/octet-stream", Data: []byte("%PDF-1.7\n")}, kindPDF},
		{Upload{FileName: "a", Data: []byte(`<?xml version="1.0"?><Invoice/>`)}, kindXML},
	}
	for _, tc := range cases {
		if got := classify(tc.up); got != tc.want {
			t.Fatalf("classify(%s, %s): expected %d got %d", tc.up.FileName, tc.up.Mime, tc.want, got)
		}
	}
}
