// Package driving provides interfaces for caller-facing services (primary/inbound ports).
package driving

import (
	"context"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
)

// IngestOptions carries caller-supplied ingestion settings.
type IngestOptions struct {
	// Collection names the target collection. Empty means the default.
	Collection string

	// UseOCR enables OCR fallback for scanned/image content.
	UseOCR bool

	// Password unlocks encrypted documents.
	Password string

	// Smart selects structure-aware chunking instead of fixed-size.
	Smart bool
}

// Ingestor drives the extract -> chunk -> embed -> store pipeline.
type Ingestor interface {
	// ProcessDocument ingests a single file. Per-file failures are
	// reported in the result, never as a returned error; the error
	// return is reserved for context cancellation.
	ProcessDocument(ctx context.Context, path string, opts IngestOptions) (*domain.IngestionResult, error)

	// ProcessBatch ingests a list of files. A single bad file does not
	// abort the rest; the batch always completes with one result per
	// input path. Per-file results stream out on the progress channel
	// as they complete.
	ProcessBatch(ctx context.Context, paths []string, opts IngestOptions) (*domain.BatchResult, error)

	// ScanDirectory lists supported files under a root without paying
	// any extraction or embedding cost.
	ScanDirectory(ctx context.Context, root string) (*domain.ScanReport, error)

	// Progress returns the channel progress events are published on.
	// The channel is bounded and publishing never blocks: when a
	// subscriber lags or is absent, intermediate events are dropped
	// oldest-first, and terminal per-file events are evicted only once
	// the buffer holds nothing but terminals.
	Progress() <-chan domain.ProgressEvent
}
