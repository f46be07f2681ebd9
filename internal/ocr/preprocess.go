package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// minOCRHeight is the height below which receipts are upscaled; Tesseract
// loses small print otherwise.
const minOCRHeight = 900

// Preprocess decodes an image, normalises orientation and contrast for OCR and
// re-encodes it as PNG.
func Preprocess(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return encodePNG(prepare(src))
}

func prepare(src image.Image) image.Image {
	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 15)
	img = imaging.Sharpen(img, 0.7)
	if h := img.Bounds().Dy(); h > 0 && h < minOCRHeight {
		img = imaging.Resize(img, 0, 1300, imaging.Lanczos)
	}
	return img
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
