package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// One instance is shared across the whole process so the model load
// cost is paid once, not per document. Implementations must be
// deterministic for a given model version and input text, and must
// serialise concurrent calls internally - callers treat the service as
// a single shared model instance.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// ordinal order: result i corresponds to texts[i].
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768).
	// This must match the vectors already stored in a collection.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the runtime is reachable with a lightweight
	// request. Used before committing to an ingestion run.
	Ping(ctx context.Context) error

	// Version returns the runtime's version string, for status
	// reporting. Empty when the runtime does not expose one.
	Version(ctx context.Context) (string, error)

	// Close releases the model. Call once on process shutdown.
	Close() error
}
