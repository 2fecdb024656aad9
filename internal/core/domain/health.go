package domain

// HealthReport is the outcome of a vector store health probe.
type HealthReport struct {
	// Healthy is true when the collection can be read.
	Healthy bool `json:"healthy"`

	// ChunkCount is the number of stored chunks in the collection at
	// probe time.
	ChunkCount int `json:"chunk_count"`

	// Recovered is true when an automatic rebuild was performed.
	// The collection is then empty and documents must be re-ingested.
	Recovered bool `json:"recovered"`

	// Err describes the failure when Healthy is false.
	Err string `json:"error,omitempty"`
}

// RuntimeStatus reports whether the extraction/embedding runtime is
// present on this machine.
type RuntimeStatus struct {
	// Available is true when the embedding runtime answers.
	Available bool `json:"available"`

	// Version is the runtime version string, when known.
	Version string `json:"version,omitempty"`

	// EmbeddingModel is the configured embedding model name.
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// OCRAvailable is true when the OCR binary is installed.
	OCRAvailable bool `json:"ocr_available"`

	// Err describes why the runtime is unavailable.
	Err string `json:"error,omitempty"`
}
