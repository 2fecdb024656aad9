package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
)

func chunkFor(file string, index int, text string, embedding []float32) domain.Chunk {
	return domain.Chunk{
		ID:        domain.ChunkID(file, index),
		Text:      text,
		Embedding: embedding,
		Metadata: map[string]any{
			domain.MetaFileName:   file,
			domain.MetaChunkIndex: index,
		},
	}
}

func TestUpsertReplacesSource(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "documents", []domain.Chunk{
		chunkFor("a.txt", 0, "v1 chunk 0", []float32{1, 0}),
		chunkFor("a.txt", 1, "v1 chunk 1", []float32{0, 1}),
	}))
	require.NoError(t, store.Upsert(ctx, "documents", []domain.Chunk{
		chunkFor("a.txt", 0, "v2 chunk 0", []float32{1, 0}),
	}))

	count, err := store.Count(ctx, "documents")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	matches, err := store.Query(ctx, "documents", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "v2 chunk 0", matches[0].Text)
}

func TestQueryOrdersByDistanceWithStableTies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "documents", []domain.Chunk{
		chunkFor("a.txt", 0, "orthogonal", []float32{0, 1}),
		chunkFor("a.txt", 1, "first exact", []float32{1, 0}),
		chunkFor("a.txt", 2, "second exact", []float32{1, 0}),
	}))

	matches, err := store.Query(ctx, "documents", []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "first exact", matches[0].Text)
	assert.Equal(t, "second exact", matches[1].Text)
	assert.Equal(t, "orthogonal", matches[2].Text)
	assert.Equal(t, 100, matches[0].Relevance)
}

func TestQueryInvalidTopK(t *testing.T) {
	store := NewStore()
	_, err := store.Query(context.Background(), "documents", []float32{1}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteBySource(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "documents", []domain.Chunk{
		chunkFor("a.txt", 0, "from a", []float32{1, 0}),
		chunkFor("b.txt", 0, "from b", []float32{0, 1}),
	}))
	require.NoError(t, store.DeleteBySource(ctx, "documents", "a.txt"))

	groups, err := store.GroupBySource(ctx, "documents")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "b.txt", groups[0].FileName)
}

func TestListCollectionsSorted(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "work", []domain.Chunk{chunkFor("a.txt", 0, "x", []float32{1})}))
	require.NoError(t, store.Upsert(ctx, "archive", []domain.Chunk{chunkFor("b.txt", 0, "y", []float32{1})}))

	names, err := store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "work"}, names)
}

func TestRecoverEmptiesCollection(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "documents", []domain.Chunk{
		chunkFor("a.txt", 0, "text", []float32{1}),
	}))
	require.NoError(t, store.Recover(ctx, "documents"))

	count, err := store.Count(ctx, "documents")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
