package mcp

import (
	"context"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
)

// mockQueryService implements driving.QueryService for testing.
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
	return &driving.CollectionStats{Collection: collection}, nil
}

func (m *mockQueryService) ListDocumentsBySource(_ context.Context, _ string) ([]domain.DocumentGroup, error) {
	return m.groups, nil
}

// mockIngestor implements driving.Ingestor for testing.
type mockIngestor struct {
	result *domain.IngestionResult
	report *domain.ScanReport
}

func (m *mockIngestor) ProcessDocument(_ context.Context, path string, _ driving.IngestOptions) (*domain.IngestionResult, error) {
	if m.result != nil {
		return m.result, nil
	}
	return &domain.IngestionResult{Path: path, Success: true, ChunkCount: 1}, nil
}

func (m *mockIngestor) ProcessBatch(_ context.Context, paths []string, _ driving.IngestOptions) (*domain.BatchResult, error) {
	return &domain.BatchResult{TotalFiles: len(paths)}, nil
}

func (m *mockIngestor) ScanDirectory(_ context.Context, root string) (*domain.ScanReport, error) {
	if m.report != nil {
		return m.report, nil
	}
	return &domain.ScanReport{Root: root}, nil
}

func (m *mockIngestor) Progress() <-chan domain.ProgressEvent {
	return nil
}

// mockHealthService implements driving.HealthService for testing.
type mockHealthService struct {
	report *domain.HealthReport
	status *domain.RuntimeStatus
}

func (m *mockHealthService) CheckHealth(_ context.Context, _ string, _ bool) *domain.HealthReport {
	if m.report != nil {
		return m.report
	}
	return &domain.HealthReport{Healthy: true}
}

func (m *mockHealthService) CheckRuntime(_ context.Context) *domain.RuntimeStatus {
	if m.status != nil {
		return m.status
	}
	return &domain.RuntimeStatus{Available: true}
}
