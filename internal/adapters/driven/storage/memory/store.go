// Package memory provides an in-memory vector store with the same
// semantics as the SQLite store. It backs tests and ephemeral runs
// where persistence is not wanted.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// record is one stored chunk plus its insertion order.
type record struct {
	chunk domain.Chunk
	seq   int64
}

// Store keeps chunks in memory, partitioned by collection. Insertion
// order is preserved so query ties break the same way as on disk.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]record
	nextSeq     int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{collections: make(map[string][]record)}
}

// Upsert writes or replaces chunks, replacing the previous chunk set of
// every source present in the batch.
func (s *Store) Upsert(_ context.Context, collection string, chunks []domain.Chunk) error {
	if collection == "" {
		return domain.ErrInvalidInput
	}
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sources := make(map[string]bool)
	for i := range chunks {
		if name := chunks[i].FileName(); name != "" {
			sources[name] = true
		}
	}

	kept := s.collections[collection][:0]
	for _, r := range s.collections[collection] {
		if !sources[r.chunk.FileName()] {
			kept = append(kept, r)
		}
	}

	for i := range chunks {
		s.nextSeq++
		kept = append(kept, record{chunk: chunks[i], seq: s.nextSeq})
	}
	s.collections[collection] = kept
	return nil
}

// Query returns the topK nearest chunks by cosine distance.
func (s *Store) Query(_ context.Context, collection string, vector []float32, topK int) ([]domain.QueryMatch, error) {
	if topK <= 0 {
		return nil, domain.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []domain.QueryMatch
	for _, r := range s.collections[collection] {
		if len(r.chunk.Embedding) != len(vector) {
			continue
		}
		distance := cosineDistance(vector, r.chunk.Embedding)
		matches = append(matches, domain.QueryMatch{
			ChunkID:   r.chunk.ID,
			Text:      r.chunk.Text,
			Metadata:  r.chunk.Metadata,
			Distance:  distance,
			Relevance: domain.RelevanceScore(distance),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes chunks by ID.
func (s *Store) Delete(_ context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := s.collections[collection][:0]
	for _, r := range s.collections[collection] {
		if !drop[r.chunk.ID] {
			kept = append(kept, r)
		}
	}
	s.collections[collection] = kept
	return nil
}

// DeleteBySource removes all chunks originating from one file.
func (s *Store) DeleteBySource(_ context.Context, collection, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.collections[collection][:0]
	for _, r := range s.collections[collection] {
		if r.chunk.FileName() != fileName {
			kept = append(kept, r)
		}
	}
	s.collections[collection] = kept
	return nil
}

// Count returns the number of chunks in a collection.
func (s *Store) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

// ListCollections returns all collection names, sorted.
func (s *Store) ListCollections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GroupBySource materialises all chunks grouped by originating file.
func (s *Store) GroupBySource(_ context.Context, collection string) ([]domain.DocumentGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bySource := make(map[string]int)
	var groups []domain.DocumentGroup
	for _, r := range s.collections[collection] {
		source := r.chunk.FileName()
		idx, ok := bySource[source]
		if !ok {
			groups = append(groups, domain.DocumentGroup{FileName: source})
			idx = len(groups) - 1
			bySource[source] = idx
		}
		groups[idx].Chunks = append(groups[idx].Chunks, r.chunk)
		groups[idx].ChunkCount++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].FileName < groups[j].FileName
	})
	return groups, nil
}

// Check always succeeds; memory cannot corrupt on disk.
func (s *Store) Check(_ context.Context, _ string) error {
	return nil
}

// Recover recreates the collection empty.
func (s *Store) Recover(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = nil
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func cosineDistance(a, b []float32) float64 {
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 1
	}
	d := 1 - dot/(math.Sqrt(na2)*math.Sqrt(nb2))
	if d < 0 {
		return 0
	}
	return d
}
