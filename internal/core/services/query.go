package services

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docvault-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultTopK is the number of matches returned when callers do not
// ask for a specific count.
const DefaultTopK = 5

// queryCacheSize bounds the query-embedding cache. Repeated queries
// (a user refining a search, the MCP assistant retrying) skip the
// embedding round trip.
const queryCacheSize = 128

// QueryService answers natural-language queries against the index.
type QueryService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	cache    *lru.Cache[string, []float32]
}

// NewQueryService creates the query engine.
func NewQueryService(embedder driven.EmbeddingService, store driven.VectorStore) *QueryService {
	cache, _ := lru.New[string, []float32](queryCacheSize)
	return &QueryService{
		embedder: embedder,
		store:    store,
		cache:    cache,
	}
}

// Query embeds the text and returns the topK most similar chunks,
// most similar first. An empty corpus yields an empty, non-error
// result.
func (s *QueryService) Query(ctx context.Context, text, collection string, topK int) (*domain.QueryResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if collection == "" {
		collection = domain.DefaultCollection
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := s.embedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	matches, err := s.store.Query(ctx, collection, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", collection, err)
	}

	logger.Debug("query %q: %d matches in %s", text, len(matches), collection)
	if matches == nil {
		matches = []domain.QueryMatch{}
	}
	return &domain.QueryResult{Matches: matches}, nil
}

// embedQuery returns the embedding for a query text, from cache when
// the same text was embedded before.
func (s *QueryService) embedQuery(ctx context.Context, text string) ([]float32, error) {
	key := s.embedder.ModelName() + "\x00" + text
	if vector, ok := s.cache.Get(key); ok {
		return vector, nil
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, vector)
	return vector, nil
}

// CollectionStats returns chunk counts and the collection list.
func (s *QueryService) CollectionStats(ctx context.Context, collection string) (*driving.CollectionStats, error) {
	if collection == "" {
		collection = domain.DefaultCollection
	}

	count, err := s.store.Count(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("counting collection %s: %w", collection, err)
	}

	all, err := s.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	return &driving.CollectionStats{
		Collection:     collection,
		ChunkCount:     count,
		AllCollections: all,
	}, nil
}

// ListDocumentsBySource returns all chunks grouped by document.
func (s *QueryService) ListDocumentsBySource(ctx context.Context, collection string) ([]domain.DocumentGroup, error) {
	if collection == "" {
		collection = domain.DefaultCollection
	}
	groups, err := s.store.GroupBySource(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("grouping collection %s: %w", collection, err)
	}
	return groups, nil
}
