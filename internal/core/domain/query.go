package domain

import "math"

// QueryMatch is one ranked similarity result.
type QueryMatch struct {
	// ChunkID identifies the matched chunk.
	ChunkID string `json:"chunk_id"`

	// Text is the chunk content.
	Text string `json:"text"`

	// Metadata is the chunk metadata (file_name, chunk_index, section).
	Metadata map[string]any `json:"metadata"`

	// Distance is the similarity metric; lower means more similar,
	// zero means identical.
	Distance float64 `json:"distance"`

	// Relevance is the display score derived from Distance.
	Relevance int `json:"relevance"`
}

// QueryResult is the outcome of a similarity query. An empty corpus is
// not an error: Matches is empty and Err is empty.
type QueryResult struct {
	Matches []QueryMatch `json:"results"`
	Err     string       `json:"error,omitempty"`
}

// RelevanceScore converts a distance into the presentational 0-100
// relevance value: round((1 - distance) * 100). It is a monotonic
// transform of distance, not a separate scoring algorithm.
func RelevanceScore(distance float64) int {
	return int(math.Round((1 - distance) * 100))
}
