// Package sqlite provides the persistent vector store. Chunks live in
// a single SQLite database partitioned into named collections;
// embeddings are stored as little-endian float32 blobs and similarity
// queries run brute force over one collection, which is plenty for a
// single-machine corpus.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docvault-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docvault-cli/internal/core/domain"
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docvault-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is the SQLite-backed vector store. Writes are serialised by a
// single writer lock so an upsert is atomic from any reader's point of
// view; queries take the read side and may run concurrently.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the vector store under dataDir.
// If dataDir is empty, defaults to ~/.docvault/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docvault", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// openDatabase opens the SQLite file with WAL mode for concurrent
// readers and enables foreign keys.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert writes or replaces chunks. All chunks sharing a source file
// replace that file's previous chunk set inside the same transaction,
// so a re-ingested document never duplicates and a failed write leaves
// the previous set intact.
func (s *Store) Upsert(ctx context.Context, collection string, chunks []domain.Chunk) error {
	if collection == "" {
		return domain.ErrInvalidInput
	}
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ensureCollection(ctx, tx, collection); err != nil {
		return err
	}

	// Replace the previous chunk set of every source in this batch.
	seen := make(map[string]bool)
	for i := range chunks {
		source := chunks[i].FileName()
		if source == "" || seen[source] {
			continue
		}
		seen[source] = true
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM chunks WHERE collection = ? AND source = ?",
			collection, source); err != nil {
			return fmt.Errorf("replacing chunks for %s: %w", source, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, collection, source, chunk_index, content, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			source = excluded.source,
			chunk_index = excluded.chunk_index,
			content = excluded.content,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		metadataJSON, err := json.Marshal(chunks[i].Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		index := 0
		if v, ok := chunks[i].Metadata[domain.MetaChunkIndex].(int); ok {
			index = v
		}

		if _, err := stmt.ExecContext(ctx,
			chunks[i].ID, collection, chunks[i].FileName(), index,
			chunks[i].Text, float32SliceToBytes(chunks[i].Embedding),
			string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunks[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query returns the topK nearest chunks by cosine distance, ascending,
// ties broken by insertion order.
func (s *Store) Query(ctx context.Context, collection string, vector []float32, topK int) ([]domain.QueryMatch, error) {
	if topK <= 0 {
		return nil, domain.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, embedding, metadata
		FROM chunks WHERE collection = ?
		ORDER BY seq
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var matches []domain.QueryMatch //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			id, content  string
			embeddingRaw []byte
			metadataJSON string
		)
		if err := rows.Scan(&id, &content, &embeddingRaw, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		embedding := bytesToFloat32Slice(embeddingRaw)
		if len(embedding) != len(vector) {
			logger.Warn("chunk %s has dimension %d, query has %d; skipping", id, len(embedding), len(vector))
			continue
		}

		distance := cosineDistance(vector, embedding)

		var metadata map[string]any
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
			}
		}

		matches = append(matches, domain.QueryMatch{
			ChunkID:   id,
			Text:      content,
			Metadata:  metadata,
			Distance:  distance,
			Relevance: domain.RelevanceScore(distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Stable sort preserves insertion order between equal distances.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes chunks by ID.
func (s *Store) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM chunks WHERE collection = ? AND id = ?")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, collection, id); err != nil {
			return fmt.Errorf("deleting chunk %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// DeleteBySource removes all chunks originating from one file.
func (s *Store) DeleteBySource(ctx context.Context, collection, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE collection = ? AND source = ?",
		collection, fileName)
	if err != nil {
		return fmt.Errorf("deleting chunks for %s: %w", fileName, err)
	}
	return nil
}

// Count returns the number of chunks in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE collection = ?", collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// ListCollections returns all collection names, sorted.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM collections ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}
	return names, nil
}

// GroupBySource materialises all chunks grouped by originating file,
// ordered by file name then chunk position.
func (s *Store) GroupBySource(ctx context.Context, collection string) ([]domain.DocumentGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, content, embedding, metadata
		FROM chunks WHERE collection = ?
		ORDER BY source, chunk_index
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var groups []domain.DocumentGroup
	bySource := make(map[string]int)

	for rows.Next() {
		var (
			id, source, content string
			embeddingRaw        []byte
			metadataJSON        string
		)
		if err := rows.Scan(&id, &source, &content, &embeddingRaw, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		var metadata map[string]any
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
			}
		}

		chunk := domain.Chunk{
			ID:        id,
			Text:      content,
			Embedding: bytesToFloat32Slice(embeddingRaw),
			Metadata:  metadata,
		}

		idx, ok := bySource[source]
		if !ok {
			groups = append(groups, domain.DocumentGroup{FileName: source})
			idx = len(groups) - 1
			bySource[source] = idx
		}
		groups[idx].Chunks = append(groups[idx].Chunks, chunk)
		groups[idx].ChunkCount++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return groups, nil
}

// Check probes the database and collection with trivial reads. A
// failure consistent with on-disk corruption is reported as
// domain.ErrStoreCorrupted; a missing or empty collection is fine.
func (s *Store) Check(ctx context.Context, collection string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result string
	if err := s.db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreCorrupted, err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: quick_check reported %q", domain.ErrStoreCorrupted, result)
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE collection = ?", collection).Scan(&count); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreCorrupted, err)
	}
	return nil
}

// Recover discards an unreadable collection and recreates it empty.
// When the database file itself is unreadable the whole file is
// rebuilt; no partial data salvage is attempted either way.
func (s *Store) Recover(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// First try dropping just the collection's rows.
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE collection = ?", collection); err == nil {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING",
			collection)
		if err == nil {
			return nil
		}
	}

	logger.Warn("collection-level recovery failed, rebuilding database at %s", s.path)

	// The file itself is unreadable: close, remove, recreate.
	s.db.Close() //nolint:errcheck

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", s.path+suffix, err)
		}
	}

	db, err := openDatabase(s.path)
	if err != nil {
		return fmt.Errorf("reopening database: %w", err)
	}
	s.db = db

	if err := s.migrate(migrations.FS); err != nil {
		return fmt.Errorf("rebuilding schema: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING",
		collection); err != nil {
		return fmt.Errorf("recreating collection %s: %w", collection, err)
	}
	return nil
}

// ensureCollection creates the collection row if missing.
func ensureCollection(ctx context.Context, tx *sql.Tx, name string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name)
	if err != nil {
		return fmt.Errorf("ensuring collection %s: %w", name, err)
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineDistance returns 1 - cosine similarity, clamped to [0, 2].
// Zero-magnitude vectors are treated as maximally distant.
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
