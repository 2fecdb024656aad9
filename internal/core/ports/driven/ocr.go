package driven

import "context"

// OCREngine recognises text in images and scanned documents.
// This is an optional capability - when nil or unavailable, image
// extraction and scanned-PDF fallback are disabled.
type OCREngine interface {
	// Available reports whether the engine can run on this machine.
	Available() bool

	// Version returns the engine version string, when known.
	Version() string

	// RecognizeImage extracts text from an image file. Preprocessing
	// (deskew, contrast normalisation) is applied when supported.
	RecognizeImage(ctx context.Context, path string) (string, error)

	// RecognizePDF rasterises a scanned PDF and extracts text from its
	// pages. Returns one string per page.
	RecognizePDF(ctx context.Context, path string) ([]string, error)
}
