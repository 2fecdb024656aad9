package driving

import (
	"context"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
)

// CollectionStats describes one collection for UI display.
type CollectionStats struct {
	Collection     string   `json:"collection"`
	ChunkCount     int      `json:"chunk_count"`
	AllCollections []string `json:"all_collections"`
}

// QueryService answers natural-language queries against the index.
type QueryService interface {
	// Query embeds the text and returns the topK most similar chunks.
	// An empty corpus yields an empty, non-error result.
	Query(ctx context.Context, text, collection string, topK int) (*domain.QueryResult, error)

	// CollectionStats returns chunk counts and the collection list.
	CollectionStats(ctx context.Context, collection string) (*CollectionStats, error)

	// ListDocumentsBySource returns all chunks grouped by document.
	ListDocumentsBySource(ctx context.Context, collection string) ([]domain.DocumentGroup, error)
}
