// Package image extracts text from image files via OCR.
package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles scanned images. OCR is the only extraction path
// for these formats, so it runs regardless of the UseOCR option.
type Extractor struct {
	ocr driven.OCREngine
}

// New creates an image extractor backed by the given OCR engine.
func New(ocr driven.OCREngine) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp"}
}

// Extract recognises text in the image.
func (e *Extractor) Extract(ctx context.Context, path string, _ driven.ExtractOptions) (*driven.ExtractionResult, error) {
	if e.ocr == nil || !e.ocr.Available() {
		return nil, domain.ErrOCRUnavailable
	}

	text, err := e.ocr.RecognizeImage(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("recognising image: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("no text recognised in %s", path)
	}

	return &driven.ExtractionResult{
		Text:      text,
		PageCount: 1,
		OCRUsed:   true,
		Format:    "image",
	}, nil
}
