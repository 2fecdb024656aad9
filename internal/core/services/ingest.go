package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docvault-cli/internal/chunker"
	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docvault-cli/internal/extractors"
	"github.com/custodia-labs/docvault-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

const (
	// progressBuffer bounds the progress channel. A lagging or absent
	// subscriber loses intermediate events oldest-first; terminal
	// events are evicted only once the buffer holds nothing else.
	progressBuffer = 64

	// embedSubBatch is how many chunks are embedded per call, so the
	// embedding stage can report percent progress between calls.
	embedSubBatch = 8

	// defaultWorkers bounds concurrent per-file pipelines in a batch.
	// Extraction overlaps across files; the embedding service and the
	// store serialise their own critical sections.
	defaultWorkers = 4

	// previewLength is how much extracted text the result carries.
	previewLength = 200
)

// IngestService drives the extract -> chunk -> embed -> store pipeline.
type IngestService struct {
	registry *extractors.Registry
	embedder driven.EmbeddingService
	store    driven.VectorStore
	chunker  *chunker.Chunker
	workers  int

	// progressMu serialises writers so publish can rebuild the buffer
	// without racing another producer.
	progressMu sync.Mutex
	progress   chan domain.ProgressEvent

	// batchMu admits one batch at a time per process.
	batchMu sync.Mutex
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithChunker replaces the default chunker.
func WithChunker(c *chunker.Chunker) IngestOption {
	return func(s *IngestService) {
		if c != nil {
			s.chunker = c
		}
	}
}

// WithWorkers sets the batch worker count.
func WithWorkers(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewIngestService creates the ingestion orchestrator.
func NewIngestService(registry *extractors.Registry, embedder driven.EmbeddingService, store driven.VectorStore, opts ...IngestOption) *IngestService {
	s := &IngestService{
		registry: registry,
		embedder: embedder,
		store:    store,
		chunker:  chunker.New(),
		workers:  defaultWorkers,
		progress: make(chan domain.ProgressEvent, progressBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Progress returns the progress event channel.
func (s *IngestService) Progress() <-chan domain.ProgressEvent {
	return s.progress
}

// ProcessDocument ingests a single file. Pipeline failures land in the
// result, not in the returned error; only context cancellation is
// returned as an error.
func (s *IngestService) ProcessDocument(ctx context.Context, path string, opts driving.IngestOptions) (*domain.IngestionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := s.processFile(ctx, path, opts)
	if ctx.Err() != nil && !result.Success {
		return nil, ctx.Err()
	}
	return result, nil
}

// ProcessBatch ingests files concurrently. One bad file never aborts
// the rest; the batch always completes with one result per input path,
// in input order.
func (s *IngestService) ProcessBatch(ctx context.Context, paths []string, opts driving.IngestOptions) (*domain.BatchResult, error) {
	if !s.batchMu.TryLock() {
		return nil, domain.ErrIngestInProgress
	}
	defer s.batchMu.Unlock()

	start := time.Now()
	batch := &domain.BatchResult{
		BatchID:    uuid.NewString(),
		TotalFiles: len(paths),
		Results:    make([]domain.IngestionResult, len(paths)),
	}

	logger.Info("batch %s: ingesting %d files", batch.BatchID, len(paths))

	workers := s.workers
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				batch.Results[i] = *s.processFile(ctx, paths[i], opts)
			}
		}()
	}

dispatch:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Mark the remaining files failed and stop dispatching.
			for j := i; j < len(paths); j++ {
				batch.Results[j] = domain.IngestionResult{
					Path:  paths[j],
					Error: ctx.Err().Error(),
				}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	for i := range batch.Results {
		if batch.Results[i].Success {
			batch.SuccessCount++
		} else {
			batch.ErrorCount++
		}
	}
	batch.Elapsed = time.Since(start)

	logger.Info("batch %s: %d succeeded, %d failed in %s",
		batch.BatchID, batch.SuccessCount, batch.ErrorCount, batch.Elapsed)
	return batch, nil
}

// ScanDirectory walks root and lists supported files without paying
// any extraction or embedding cost. Hidden directories are skipped;
// unsupported files are counted, not listed.
func (s *IngestService) ScanDirectory(ctx context.Context, root string) (*domain.ScanReport, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, root)
	}

	report := &domain.ScanReport{Root: root}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !s.registry.IsSupported(path) {
			report.Skipped++
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		report.Files = append(report.Files, domain.ScanEntry{
			Path:      path,
			SizeBytes: fi.Size(),
			Extension: strings.ToLower(filepath.Ext(path)),
		})
		report.TotalSize += fi.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// processFile runs the full pipeline for one file. All-or-nothing: a
// failure at any stage leaves the store untouched for this file.
func (s *IngestService) processFile(ctx context.Context, path string, opts driving.IngestOptions) (result *domain.IngestionResult) {
	start := time.Now()
	result = &domain.IngestionResult{Path: path}

	// A panicking extractor must not take down the batch.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic ingesting %s: %v", path, r)
			result.Success = false
			result.Error = fmt.Sprintf("internal error: %v", r)
			result.ProcessingTime = time.Since(start)
			s.publish(domain.ProgressEvent{
				Path: path, Step: domain.StepFailed,
				Terminal: true, Err: result.Error,
			})
		}
	}()

	fail := func(err error) *domain.IngestionResult {
		result.Success = false
		result.Error = err.Error()
		result.ProcessingTime = time.Since(start)
		s.publish(domain.ProgressEvent{
			Path: path, Step: domain.StepFailed,
			Terminal: true, Err: result.Error,
		})
		return result
	}

	s.publish(domain.ProgressEvent{Path: path, Step: domain.StepQueued})

	info, err := os.Stat(path)
	if err != nil {
		return fail(fmt.Errorf("reading file: %w", err))
	}

	extractor, err := s.registry.ForPath(path)
	if err != nil {
		return fail(err)
	}

	// Extract.
	s.publish(domain.ProgressEvent{Path: path, Step: domain.StepExtracting})
	extraction, err := extractor.Extract(ctx, path, driven.ExtractOptions{
		UseOCR:   opts.UseOCR,
		Password: opts.Password,
	})
	if err != nil {
		return fail(fmt.Errorf("extracting text: %w", err))
	}

	// Chunk.
	s.publish(domain.ProgressEvent{Path: path, Step: domain.StepChunking})
	strategy := chunker.Standard
	if opts.Smart {
		strategy = chunker.Smart
	}
	pieces := s.chunker.Split(extraction.Text, strategy)
	if len(pieces) == 0 {
		return fail(fmt.Errorf("no text extracted from %s", path))
	}

	fileName := filepath.Base(path)
	ingestedAt := time.Now().UTC().Format(time.RFC3339)
	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		metadata := map[string]any{
			domain.MetaFileName:   fileName,
			domain.MetaChunkIndex: i,
			domain.MetaIngestedAt: ingestedAt,
		}
		if piece.Section != "" {
			metadata[domain.MetaSection] = piece.Section
		}
		chunks[i] = domain.Chunk{
			ID:       domain.ChunkID(fileName, i),
			Text:     piece.Text,
			Metadata: metadata,
		}
	}

	// Embed in sub-batches so the stage can report percent progress.
	s.publish(domain.ProgressEvent{
		Path: path, Step: domain.StepEmbedding,
		Detail: fmt.Sprintf("%d chunks", len(chunks)),
	})
	for lo := 0; lo < len(chunks); lo += embedSubBatch {
		hi := lo + embedSubBatch
		if hi > len(chunks) {
			hi = len(chunks)
		}
		texts := make([]string, hi-lo)
		for i := lo; i < hi; i++ {
			texts[i-lo] = chunks[i].Text
		}
		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fail(fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err))
		}
		for i := lo; i < hi; i++ {
			chunks[i].Embedding = embeddings[i-lo]
		}
		s.publish(domain.ProgressEvent{
			Path: path, Step: domain.StepEmbedding,
			Percent: hi * 100 / len(chunks),
		})
	}

	// Store. The upsert replaces this file's previous chunk set.
	s.publish(domain.ProgressEvent{Path: path, Step: domain.StepStoring})
	collection := opts.Collection
	if collection == "" {
		collection = domain.DefaultCollection
	}
	if err := s.store.Upsert(ctx, collection, chunks); err != nil {
		return fail(fmt.Errorf("storing chunks: %w", err))
	}

	text := extraction.Text
	preview := text
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}

	result.Success = true
	result.ChunkCount = len(chunks)
	result.ProcessingTime = time.Since(start)
	result.Document = &domain.Document{
		Path:           path,
		FileName:       fileName,
		SizeBytes:      info.Size(),
		Extension:      strings.ToLower(filepath.Ext(path)),
		WordCount:      len(strings.Fields(text)),
		CharCount:      len(text),
		Sections:       extraction.Sections,
		PageCount:      extraction.PageCount,
		Preview:        preview,
		ProcessingTime: result.ProcessingTime,
	}

	s.publish(domain.ProgressEvent{
		Path: path, Step: domain.StepComplete,
		Terminal: true, ChunkCount: len(chunks),
	})
	return result
}

// publish delivers an event without ever blocking the pipeline. When
// the buffer is full the oldest intermediate event is evicted first; a
// terminal event is displaced only when the buffer holds nothing but
// terminals, so an absent subscriber cannot stall ingestion.
func (s *IngestService) publish(ev domain.ProgressEvent) {
	ev.StepIndex = ev.Step.Index()
	ev.StepTotal = domain.StepCount

	s.progressMu.Lock()
	defer s.progressMu.Unlock()

	select {
	case s.progress <- ev:
		return
	default:
	}

	// Full buffer: rebuild it with ev appended, evicting intermediates
	// before terminals and oldest-first within each kind.
	kept := make([]domain.ProgressEvent, 0, progressBuffer+1)
drain:
	for {
		select {
		case old := <-s.progress:
			kept = append(kept, old)
		default:
			break drain
		}
	}
	kept = append(kept, ev)
	for len(kept) > progressBuffer {
		drop := 0
		for i, e := range kept {
			if !e.Terminal {
				drop = i
				break
			}
		}
		kept = append(kept[:drop], kept[drop+1:]...)
	}
	// Room is guaranteed: the buffer was drained above and progressMu
	// excludes other producers.
	for _, e := range kept {
		s.progress <- e
	}
}
