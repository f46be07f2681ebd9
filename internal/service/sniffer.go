package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"ustva-extractor/internal/einvoice"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Route records how an upload was interpreted.
type Route string

const (
	RouteXMLCII        Route = "xml-cii"
	RouteXMLUBL        Route = "xml-ubl"
	RoutePDFZugferdCII Route = "pdf-zugferd-cii"
	RoutePDFZugferdUBL Route = "pdf-zugferd-ubl"
	RoutePDFNoXML      Route = "pdf-no-xml"
	RouteNeedsOCR      Route = "needs_ocr"
	RouteOCRLocal      Route = "ocr-local"
	RouteOCRText       Route = "ocr-text"
)

// Hint is the user-facing follow-up advice for routes that did not yield
// structured data.
func (r Route) Hint() string {
	switch r {
	case RouteNeedsOCR:
		return "No XML detected – use OCR path"
	case RoutePDFNoXML:
		return "PDF without embedded XML – use OCR path"
	case RouteOCRText:
		return "Fields recognised heuristically from document text"
	}
	return ""
}

// NeedsOCR reports whether the client should run its own OCR for this route.
func (r Route) NeedsOCR() bool {
	return r == RouteNeedsOCR || r == RoutePDFNoXML
}

type Upload struct {
	FileName string
	Mime     string
	Data     []byte
}

// Outcome is the result of dispatching one upload. Invoice is never nil.
type Outcome struct {
	Route   Route
	Invoice *einvoice.Invoice
	RawText string
	Hint    string
}

// TextRecognizer extracts plain text from documents without embedded XML.
type TextRecognizer interface {
	PDFText(ctx context.Context, data []byte) (string, error)
	ImageText(ctx context.Context, data []byte) (string, error)
}

type uploadKind int

const (
	kindOther uploadKind = iota
	kindPDF
	kindXML
	kindImage
	kindText
)

// Dispatcher decides the route of an upload and runs the matching normalizer.
// Parse failures degrade the route and never surface as errors.
type Dispatcher struct {
	attachments *AttachmentExtractor
	recognizer  TextRecognizer
	logger      *zap.Logger
}

// NewDispatcher creates a dispatcher. A nil recognizer disables the server-side
// text fallback, which keeps dispatch free of OCR work.
func NewDispatcher(attachments *AttachmentExtractor, recognizer TextRecognizer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		attachments: attachments,
		recognizer:  recognizer,
		logger:      logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, up Upload) Outcome {
	switch kind := classify(up); kind {
	case kindPDF:
		return d.dispatchPDF(ctx, up)
	case kindXML:
		return d.dispatchXML(up)
	case kindImage, kindText:
		return d.textFallback(ctx, up, kind, RouteNeedsOCR)
	}
	return outcome(RouteNeedsOCR, nil, "")
}

func (d *Dispatcher) dispatchPDF(ctx context.Context, up Upload) Outcome {
	att, ok := d.attachments.ExtractXML(up.Data)
	if !ok {
		return d.textFallback(ctx, up, kindPDF, RoutePDFNoXML)
	}

	root, err := einvoice.ParseXML(att.XML)
	if err != nil {
		d.logger.Warn("Embedded XML could not be parsed",
			zap.String("file", up.FileName),
			zap.String("attachment", att.FileName),
			zap.Error(err),
		)
		return d.textFallback(ctx, up, kindPDF, RoutePDFNoXML)
	}

	raw := sanitizeUTF8(string(att.XML))
	switch {
	case root.Name == "CrossIndustryInvoice":
		inv, err := einvoice.NormalizeCII(root)
		if err == nil {
			return outcome(RoutePDFZugferdCII, inv, raw)
		}
	case einvoice.IsUBLRoot(root):
		return outcome(RoutePDFZugferdUBL, einvoice.NormalizeUBL(root), raw)
	}

	d.logger.Warn("Embedded XML is neither CII nor UBL",
		zap.String("file", up.FileName),
		zap.String("attachment", att.FileName),
		zap.String("root", root.Name),
	)
	return d.textFallback(ctx, up, kindPDF, RoutePDFNoXML)
}

func (d *Dispatcher) dispatchXML(up Upload) Outcome {
	text := sanitizeUTF8(string(up.Data))

	root, err := einvoice.ParseXML(up.Data)
	if err != nil {
		d.logger.Warn("XML parse failed, falling back to OCR",
			zap.String("file", up.FileName),
			zap.Error(err),
		)
		return outcome(RouteNeedsOCR, nil, text)
	}

	if einvoice.LooksLikeCII(text) {
		inv, err := einvoice.NormalizeCII(root)
		if err != nil {
			level := zap.WarnLevel
			if errors.Is(err, einvoice.ErrCIIRootNotFound) {
				level = zap.InfoLevel
			}
			d.logger.Check(level, "CII normalization failed, falling back to OCR").Write(
				zap.String("file", up.FileName),
				zap.String("root", root.Name),
				zap.Error(err),
			)
			return outcome(RouteNeedsOCR, nil, text)
		}
		return outcome(RouteXMLCII, inv, text)
	}

	if einvoice.IsUBLRoot(root) {
		return outcome(RouteXMLUBL, einvoice.NormalizeUBL(root), text)
	}

	d.logger.Info("XML root not recognised as invoice",
		zap.String("file", up.FileName),
		zap.String("root", root.Name),
	)
	return outcome(RouteNeedsOCR, nil, text)
}

// textFallback runs the server-side recognizer when enabled and otherwise
// returns the degraded route unchanged.
func (d *Dispatcher) textFallback(ctx context.Context, up Upload, kind uploadKind, degraded Route) Outcome {
	if d.recognizer == nil {
		return outcome(degraded, nil, "")
	}

	var (
		text string
		err  error
	)
	switch kind {
	case kindPDF:
		text, err = d.recognizer.PDFText(ctx, up.Data)
	case kindImage:
		text, err = d.recognizer.ImageText(ctx, up.Data)
	case kindText:
		text = string(up.Data)
	}
	if err != nil {
		d.logger.Warn("Server-side text extraction failed",
			zap.String("file", up.FileName),
			zap.Error(err),
		)
		return outcome(degraded, nil, "")
	}

	text = strings.TrimSpace(sanitizeUTF8(text))
	if text == "" {
		return outcome(degraded, nil, "")
	}
	return outcome(RouteOCRText, einvoice.ParseText(text), text)
}

func outcome(route Route, inv *einvoice.Invoice, raw string) Outcome {
	if inv == nil {
		inv = &einvoice.Invoice{}
	}
	return Outcome{Route: route, Invoice: inv, RawText: raw, Hint: route.Hint()}
}

// classify looks at the declared mime type and file name first and only sniffs
// the content when the client sent no useful type.
func classify(up Upload) uploadKind {
	mime := strings.ToLower(strings.TrimSpace(up.Mime))
	ext := strings.ToLower(filepath.Ext(up.FileName))

	switch {
	case strings.Contains(mime, "pdf") || ext == ".pdf":
		return kindPDF
	case strings.Contains(mime, "xml") || ext == ".xml":
		return kindXML
	case strings.HasPrefix(mime, "image/"):
		return kindImage
	case strings.HasPrefix(mime, "text/plain") || ext == ".txt":
		return kindText
	}

	if mime != "" && mime != "application/octet-stream" {
		return kindOther
	}
	return sniff(up.Data)
}

func sniff(data []byte) uploadKind {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		switch {
		case m.Is("application/pdf"):
			return kindPDF
		case m.Is("text/xml"), m.Is("application/xml"):
			return kindXML
		case strings.HasPrefix(m.String(), "image/"):
			return kindImage
		case m.Is("text/plain"):
			return kindText
		}
	}
	return kindOther
}
