// Package tesseract provides an OCR engine adapter backed by the
// tesseract binary. The native engine is optional: its presence is
// probed at startup and the build stays pure Go, so machines without
// tesseract simply run with OCR disabled.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docvault-cli/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Default binary names looked up on PATH.
const (
	DefaultBinary    = "tesseract"
	DefaultRasterise = "pdftoppm"
	DefaultLanguages = "eng"
)

// Config holds configuration for the tesseract engine.
type Config struct {
	// Binary is the tesseract executable (default: tesseract on PATH).
	Binary string

	// Rasterise is the PDF rasteriser executable used for scanned
	// PDFs (default: pdftoppm on PATH).
	Rasterise string

	// Languages is the tesseract language spec (default: eng).
	Languages string
}

// Engine shells out to tesseract for text recognition. Tesseract's own
// preprocessing (deskew, contrast normalisation, page segmentation) is
// applied through its default engine mode.
type Engine struct {
	binary    string
	rasterise string
	languages string
	version   string
	available bool
}

// NewEngine probes the configured binaries and returns the engine.
// A missing binary is not an error; the engine reports unavailable.
func NewEngine(cfg Config) *Engine {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Rasterise == "" {
		cfg.Rasterise = DefaultRasterise
	}
	if cfg.Languages == "" {
		cfg.Languages = DefaultLanguages
	}

	e := &Engine{
		binary:    cfg.Binary,
		rasterise: cfg.Rasterise,
		languages: cfg.Languages,
	}

	path, err := exec.LookPath(cfg.Binary)
	if err != nil {
		logger.Debug("tesseract not found on PATH: %v", err)
		return e
	}
	e.binary = path
	e.available = true
	e.version = probeVersion(path)
	return e
}

// Available reports whether tesseract can run on this machine.
func (e *Engine) Available() bool {
	return e.available
}

// Version returns the tesseract version string, when known.
func (e *Engine) Version() string {
	return e.version
}

// RecognizeImage extracts text from a single image file.
func (e *Engine) RecognizeImage(ctx context.Context, path string) (string, error) {
	if !e.available {
		return "", domain.ErrOCRUnavailable
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, path, "stdout", "-l", e.languages)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// RecognizePDF rasterises a scanned PDF and recognises each page.
func (e *Engine) RecognizePDF(ctx context.Context, path string) ([]string, error) {
	if !e.available {
		return nil, domain.ErrOCRUnavailable
	}

	rasterise, err := exec.LookPath(e.rasterise)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found (needed to rasterise scanned PDFs)", domain.ErrOCRUnavailable, e.rasterise)
	}

	tmpDir, err := os.MkdirTemp("", "docvault-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, rasterise, "-r", "300", "-gray", "-png", path, prefix)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rasterising pdf: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("listing rasterised pages: %w", err)
	}
	sort.Strings(images)

	pages := make([]string, 0, len(images))
	for _, img := range images {
		text, err := e.RecognizeImage(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", len(pages)+1, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// probeVersion asks tesseract for its version; first line only.
func probeVersion(binary string) string {
	out, err := exec.Command(binary, "--version").CombinedOutput()
	if err != nil {
		return ""
	}
	lines := strings.SplitN(string(out), "\n", 2)
	return strings.TrimSpace(lines[0])
}
