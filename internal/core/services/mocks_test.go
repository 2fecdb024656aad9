package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// It returns a per-text deterministic vector so ordering assertions
// are meaningful.
type mockEmbeddingService struct {
	embedFn    func(text string) []float32
	embedErr   error
	pingErr    error
	dims       int
	embedCalls atomic.Int64
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	dims := m.Dimensions()
	v := make([]float32, dims)
	for i := 0; i < len(text) && i < dims; i++ {
		v[i] = float32(text[i]) / 255
	}
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.embedCalls.Add(1)
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 4
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return m.pingErr
}

func (m *mockEmbeddingService) Version(_ context.Context) (string, error) {
	return "mock-1.0", nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	exts       []string
	text       string
	sections   []string
	extractErr error
	panicMsg   string

	mu        sync.Mutex
	extracted []string
}

func (m *mockExtractor) Extensions() []string {
	if m.exts != nil {
		return m.exts
	}
	return []string{".txt"}
}

func (m *mockExtractor) Extract(_ context.Context, path string, _ driven.ExtractOptions) (*driven.ExtractionResult, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	m.mu.Lock()
	m.extracted = append(m.extracted, path)
	m.mu.Unlock()
	return &driven.ExtractionResult{
		Text:     m.text,
		Sections: m.sections,
		Format:   "text",
	}, nil
}

// mockOCR implements driven.OCREngine for testing.
type mockOCR struct {
	available bool
}

func (m *mockOCR) Available() bool  { return m.available }
func (m *mockOCR) Version() string  { return "mock-ocr" }
func (m *mockOCR) RecognizeImage(_ context.Context, _ string) (string, error) {
	return "", nil
}
func (m *mockOCR) RecognizePDF(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

// corruptibleStore wraps the memory store and fails Check on demand.
type corruptibleStore struct {
	driven.VectorStore
	checkErr   error
	recoverErr error
	recovered  bool
}

func (s *corruptibleStore) Check(ctx context.Context, collection string) error {
	if s.checkErr != nil {
		return s.checkErr
	}
	return s.VectorStore.Check(ctx, collection)
}

func (s *corruptibleStore) Recover(ctx context.Context, collection string) error {
	if s.recoverErr != nil {
		return s.recoverErr
	}
	s.recovered = true
	s.checkErr = nil
	return s.VectorStore.Recover(ctx, collection)
}
