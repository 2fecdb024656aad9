package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
)

// --- Mock services shared by command tests ---

type mockQueryService struct {
	result   *domain.QueryResult
	groups   []domain.DocumentGroup
	stats    *driving.CollectionStats
	queryErr error
}

func (m *mockQueryService) Query(_ context.Context, _, _ string, _ int) (*domain.QueryResult, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.QueryResult{Matches: []domain.QueryMatch{}}, nil
}

func (m *mockQueryService) CollectionStats(_ context.Context, collection string) (*driving.CollectionStats, error) {
	if m.stats != nil {
		return m.stats, nil
	}
	return &driving.CollectionStats{Collection: collection, AllCollections: []string{collection}}, nil
}

func (m *mockQueryService) ListDocumentsBySource(_ context.Context, _ string) ([]domain.DocumentGroup, error) {
	return m.groups, nil
}

type mockIngestor struct {
	batch    *domain.BatchResult
	report   *domain.ScanReport
	batchErr error
	progress chan domain.ProgressEvent
}

func (m *mockIngestor) ProcessDocument(_ context.Context, path string, _ driving.IngestOptions) (*domain.IngestionResult, error) {
	return &domain.IngestionResult{Path: path, Success: true, ChunkCount: 1}, nil
}

func (m *mockIngestor) ProcessBatch(_ context.Context, paths []string, _ driving.IngestOptions) (*domain.BatchResult, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	if m.batch != nil {
		return m.batch, nil
	}
	results := make([]domain.IngestionResult, len(paths))
	for i, p := range paths {
		results[i] = domain.IngestionResult{Path: p, Success: true, ChunkCount: 2}
	}
	return &domain.BatchResult{
		BatchID:      "test-batch",
		TotalFiles:   len(paths),
		SuccessCount: len(paths),
		Results:      results,
	}, nil
}

func (m *mockIngestor) ScanDirectory(_ context.Context, root string) (*domain.ScanReport, error) {
	if m.report != nil {
		return m.report, nil
	}
	return &domain.ScanReport{Root: root}, nil
}

func (m *mockIngestor) Progress() <-chan domain.ProgressEvent {
	if m.progress == nil {
		m.progress = make(chan domain.ProgressEvent, 8)
	}
	return m.progress
}

type mockHealthService struct {
	report *domain.HealthReport
	status *domain.RuntimeStatus
}

func (m *mockHealthService) CheckHealth(_ context.Context, _ string, _ bool) *domain.HealthReport {
	if m.report != nil {
		return m.report
	}
	return &domain.HealthReport{Healthy: true, ChunkCount: 3}
}

func (m *mockHealthService) CheckRuntime(_ context.Context) *domain.RuntimeStatus {
	if m.status != nil {
		return m.status
	}
	return &domain.RuntimeStatus{Available: true, EmbeddingModel: "mock-embed"}
}

var errServiceDown = errors.New("service down")

// setupTestServices installs mock services and returns a cleanup
// function restoring the previous wiring.
func setupTestServices() func() {
	oldIngest, oldQuery, oldHealth := ingestService, queryService, healthService
	ingestService = &mockIngestor{}
	queryService = &mockQueryService{
		result: &domain.QueryResult{Matches: []domain.QueryMatch{
			{
				ChunkID:   "c1",
				Text:      "matched passage text",
				Distance:  0.2,
				Relevance: 80,
				Metadata:  map[string]any{domain.MetaFileName: "notes.md"},
			},
		}},
		groups: []domain.DocumentGroup{{FileName: "notes.md", ChunkCount: 3}},
	}
	healthService = &mockHealthService{}
	return func() {
		ingestService, queryService, healthService = oldIngest, oldQuery, oldHealth
	}
}
