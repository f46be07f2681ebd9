package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// maxRenderedPages bounds OCR of scanned PDFs, which costs seconds per page.
const maxRenderedPages = 3

// Recognizer extracts text from PDFs (text layer via go-fitz, falling back to
// rendering and Tesseract) and from images (Tesseract).
type Recognizer struct {
	languages []string
	logger    *zap.Logger
}

func NewRecognizer(languages []string, logger *zap.Logger) *Recognizer {
	if len(languages) == 0 {
		languages = []string{"deu", "eng"}
	}
	return &Recognizer{
		languages: languages,
		logger:    logger,
	}
}

// PDFText returns the text layer of all pages. Scanned PDFs without one have
// their first pages rendered and recognised.
func (r *Recognizer) PDFText(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, err := doc.Text(i)
		if err != nil {
			r.logger.Warn("Failed to extract text from page", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	if text := strings.TrimSpace(textBuilder.String()); text != "" {
		r.logger.Debug("PDF text extracted using go-fitz",
			zap.Int("pages", doc.NumPage()),
			zap.Int("text_length", len(text)),
		)
		return text, nil
	}

	textBuilder.Reset()
	for i := 0; i < doc.NumPage() && i < maxRenderedPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		img, err := doc.Image(i)
		if err != nil {
			r.logger.Warn("Failed to render page", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		png, err := encodePNG(prepare(img))
		if err != nil {
			return "", err
		}
		pageText, err := r.recognize(png)
		if err != nil {
			return "", err
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return strings.TrimSpace(textBuilder.String()), nil
}

func (r *Recognizer) ImageText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	png, err := Preprocess(data)
	if err != nil {
		return "", err
	}
	text, err := r.recognize(png)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// recognize runs Tesseract on a PNG. Clients are not safe for concurrent use,
// so each call gets its own.
func (r *Recognizer) recognize(png []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.languages...); err != nil {
		return "", fmt.Errorf("failed to set OCR languages: %w", err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return text, nil
}
