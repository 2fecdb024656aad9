package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Metadata keys shared by chunks across the engine.
// Chunks from the same document carry the same MetaFileName value,
// which is what enables grouping and replace-on-reingest.
const (
	MetaFileName   = "file_name"
	MetaChunkIndex = "chunk_index"
	MetaSection    = "section"
	MetaIngestedAt = "ingested_at"
)

// DefaultCollection is the collection used when callers do not name one.
const DefaultCollection = "documents"

// Document summarises a source file after extraction.
// It is what callers see; the persisted unit is the Chunk.
type Document struct {
	// Path is the filesystem path the document was ingested from.
	Path string

	// FileName is the base name of the source file.
	FileName string

	// SizeBytes is the file size on disk.
	SizeBytes int64

	// Extension is the lowercased file extension, including the dot.
	Extension string

	// WordCount and CharCount describe the extracted text.
	WordCount int
	CharCount int

	// Sections lists detected section/heading titles, in order.
	Sections []string

	// PageCount is the number of pages, when the format has pages.
	PageCount int

	// Preview is a short prefix of the extracted text.
	Preview string

	// ProcessingTime is the total wall time spent ingesting the file.
	ProcessingTime time.Duration
}

// Chunk is a bounded span of extracted text stored with its embedding.
type Chunk struct {
	// ID uniquely determines the source document and ordinal position.
	ID string

	// Text is the chunk content.
	Text string

	// Embedding is the fixed-dimension vector for this chunk.
	Embedding []float32

	// Metadata carries file_name, chunk_index, section and ingested_at.
	Metadata map[string]any
}

// FileName returns the originating file name recorded in metadata.
func (c *Chunk) FileName() string {
	if c.Metadata == nil {
		return ""
	}
	name, _ := c.Metadata[MetaFileName].(string)
	return name
}

// ChunkID derives the stable chunk identifier for a source file and
// ordinal position. Re-ingesting the same file yields the same IDs, so
// upserts replace rather than duplicate.
func ChunkID(fileName string, index int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s#%d", fileName, index)))
	return hex.EncodeToString(sum[:16])
}

// DocumentGroup is the set of chunks originating from one document,
// materialised for browsing.
type DocumentGroup struct {
	FileName   string  `json:"file_name"`
	ChunkCount int     `json:"chunk_count"`
	Chunks     []Chunk `json:"chunks"`
}
