// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// ExtractOptions carries caller-supplied extraction settings.
type ExtractOptions struct {
	// UseOCR allows OCR fallback for scanned pages and enables image
	// extraction. Direct text extraction is always attempted first.
	UseOCR bool

	// Password unlocks encrypted documents. Extraction of an encrypted
	// document without the right password fails with
	// domain.ErrDecryptionFailed.
	Password string
}

// ExtractionResult is the output of text extraction for one file.
type ExtractionResult struct {
	// Text is the full extracted text.
	Text string

	// Sections lists detected section/heading titles, in order.
	Sections []string

	// PageCount is the number of pages, when the format has pages.
	PageCount int

	// OCRUsed is true when any text came from OCR.
	OCRUsed bool

	// Format names the source format (e.g. "pdf", "docx", "markdown").
	Format string
}

// Extractor turns a file path into raw text plus structural metadata.
// One variant exists per supported extension family; dispatch is a pure
// function of the file extension. Extractors return errors rather than
// panicking - the orchestrator converts them into per-file failures.
type Extractor interface {
	// Extensions returns the lowercased extensions this extractor
	// handles, including the leading dot.
	Extensions() []string

	// Extract reads the file and produces its text and metadata.
	Extract(ctx context.Context, path string, opts ExtractOptions) (*ExtractionResult, error)
}
