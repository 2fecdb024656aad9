// Package pdf extracts text from PDF documents, with OCR fallback for
// scanned pages. Direct text extraction is always attempted first; OCR
// runs only on pages that yield no or low text, and only when the
// caller asked for it.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docvault-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// pageTimeout bounds text extraction per page; malformed PDFs can make
// the parser spin.
const pageTimeout = 10 * time.Second

// lowTextThreshold is the character count below which a page is
// treated as yielding no usable text (scanned or image-only).
const lowTextThreshold = 20

// Extractor handles PDF documents.
type Extractor struct {
	ocr driven.OCREngine
}

// New creates a PDF extractor. The OCR engine is optional; without it,
// scanned documents fail extraction with a descriptive error.
func New(ocr driven.OCREngine) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract reads per-page text from the PDF. Encrypted documents are
// opened with the supplied password and fail with
// domain.ErrDecryptionFailed when it is missing or wrong.
func (e *Extractor) Extract(ctx context.Context, path string, opts driven.ExtractOptions) (*driven.ExtractionResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}

	reader, err := pdf.NewReaderEncrypted(f, info.Size(), func() string {
		return opts.Password
	})
	if err != nil {
		if isPasswordError(err) {
			return nil, domain.ErrDecryptionFailed
		}
		return nil, fmt.Errorf("parsing pdf: %w", err)
	}

	pageCount := reader.NumPage()
	pages := make([]string, pageCount)
	lowTextPages := 0

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			lowTextPages++
			continue
		}

		content, err := extractPageGuarded(ctx, page)
		if err != nil {
			// A single unreadable page is not fatal; it counts as a
			// low-text page and may be recovered by OCR below.
			logger.Warn("pdf page %d of %s unreadable: %v", i, path, err)
			lowTextPages++
			continue
		}

		pages[i-1] = content
		if len(strings.TrimSpace(content)) < lowTextThreshold {
			lowTextPages++
		}
	}

	ocrUsed := false
	if lowTextPages > 0 && opts.UseOCR {
		if e.ocr == nil || !e.ocr.Available() {
			return nil, domain.ErrOCRUnavailable
		}
		if err := e.fillPagesWithOCR(ctx, path, pages); err != nil {
			return nil, err
		}
		ocrUsed = true
	}

	text := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if text == "" {
		return nil, fmt.Errorf("no extractable text in %s: document appears to be scanned (retry with OCR enabled)", path)
	}

	return &driven.ExtractionResult{
		Text:      text,
		PageCount: pageCount,
		OCRUsed:   ocrUsed,
		Format:    "pdf",
	}, nil
}

// fillPagesWithOCR recognises the whole document and fills in only the
// pages that direct extraction left empty or near-empty.
func (e *Extractor) fillPagesWithOCR(ctx context.Context, path string, pages []string) error {
	ocrPages, err := e.ocr.RecognizePDF(ctx, path)
	if err != nil {
		return fmt.Errorf("ocr fallback: %w", err)
	}

	for i := range pages {
		if len(strings.TrimSpace(pages[i])) >= lowTextThreshold {
			continue
		}
		if i < len(ocrPages) {
			pages[i] = ocrPages[i]
		}
	}
	return nil
}

// extractPageGuarded extracts one page's text under a timeout.
func extractPageGuarded(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resCh := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resCh <- result{content, err}
	}()

	select {
	case r := <-resCh:
		return r.content, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(pageTimeout):
		return "", errors.New("page extraction timed out")
	}
}

// isPasswordError reports whether opening failed because of encryption
// rather than a malformed file.
func isPasswordError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypted")
}
