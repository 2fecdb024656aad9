package driven

import (
	"context"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
)

// VectorStore persists chunks and answers similarity queries.
// All operations are scoped to a named collection. Writes to the same
// collection are serialised by the implementation; an upsert is atomic
// per call, so readers never observe a partially written chunk set.
type VectorStore interface {
	// Upsert writes or replaces chunks by ID. Chunks belonging to the
	// same source file replace that file's previous chunk set in the
	// same transaction, so re-ingestion never duplicates.
	Upsert(ctx context.Context, collection string, chunks []domain.Chunk) error

	// Query returns at most topK matches ordered by ascending distance
	// (most similar first). Ties break by insertion order.
	Query(ctx context.Context, collection string, vector []float32, topK int) ([]domain.QueryMatch, error)

	// Delete removes chunks by ID.
	Delete(ctx context.Context, collection string, ids []string) error

	// DeleteBySource removes all chunks originating from a file.
	DeleteBySource(ctx context.Context, collection, fileName string) error

	// Count returns the number of chunks in a collection.
	Count(ctx context.Context, collection string) (int, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// GroupBySource materialises all chunks grouped by originating
	// document, for browsing (not for query).
	GroupBySource(ctx context.Context, collection string) ([]domain.DocumentGroup, error)

	// Check probes collection integrity with a trivial read. A failure
	// consistent with on-disk corruption returns domain.ErrStoreCorrupted.
	Check(ctx context.Context, collection string) error

	// Recover discards an unreadable collection and recreates it empty
	// under the same name. No partial data salvage is attempted.
	Recover(ctx context.Context, collection string) error

	// Close releases the underlying storage.
	Close() error
}
