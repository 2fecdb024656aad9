package services

import (
	"context"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docvault-cli/internal/logger"
)

// Ensure HealthService implements the interface.
var _ driving.HealthService = (*HealthService)(nil)

// HealthService probes the vector store and the embedding/OCR runtime.
type HealthService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	ocr      driven.OCREngine
}

// NewHealthService creates the health checker. The OCR engine may be
// nil when none is configured.
func NewHealthService(embedder driven.EmbeddingService, store driven.VectorStore, ocr driven.OCREngine) *HealthService {
	return &HealthService{
		embedder: embedder,
		store:    store,
		ocr:      ocr,
	}
}

// CheckHealth probes a collection. An absent or empty collection is
// healthy. With autoRecover set, a corrupted collection is rebuilt
// empty and reported so the caller can prompt for re-ingestion.
func (s *HealthService) CheckHealth(ctx context.Context, collection string, autoRecover bool) *domain.HealthReport {
	if collection == "" {
		collection = domain.DefaultCollection
	}

	report := &domain.HealthReport{}

	if err := s.store.Check(ctx, collection); err != nil {
		logger.Warn("health check failed for %s: %v", collection, err)
		if !autoRecover {
			report.Err = err.Error()
			return report
		}

		if recErr := s.store.Recover(ctx, collection); recErr != nil {
			report.Err = recErr.Error()
			return report
		}
		report.Recovered = true
		logger.Info("collection %s rebuilt empty after corruption", collection)
	}

	count, err := s.store.Count(ctx, collection)
	if err != nil {
		report.Err = err.Error()
		return report
	}

	report.Healthy = true
	report.ChunkCount = count
	return report
}

// CheckRuntime reports embedding-runtime and OCR availability.
func (s *HealthService) CheckRuntime(ctx context.Context) *domain.RuntimeStatus {
	status := &domain.RuntimeStatus{
		EmbeddingModel: s.embedder.ModelName(),
	}

	if s.ocr != nil {
		status.OCRAvailable = s.ocr.Available()
	}

	if err := s.embedder.Ping(ctx); err != nil {
		status.Err = err.Error()
		return status
	}
	status.Available = true

	if version, err := s.embedder.Version(ctx); err == nil {
		status.Version = version
	}
	return status
}
