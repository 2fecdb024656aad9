package domain

import "time"

// Step identifies a stage of the per-file ingestion pipeline.
type Step int

// Pipeline steps, in execution order.
const (
	StepQueued Step = iota
	StepExtracting
	StepChunking
	StepEmbedding
	StepStoring
	StepComplete
	StepFailed
)

// StepCount is the number of working stages reported in progress events
// (queued and the terminal states are not counted).
const StepCount = 4

// String returns the human-readable step name.
func (s Step) String() string {
	switch s {
	case StepQueued:
		return "queued"
	case StepExtracting:
		return "extracting"
	case StepChunking:
		return "chunking"
	case StepEmbedding:
		return "embedding"
	case StepStoring:
		return "storing"
	case StepComplete:
		return "complete"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Index returns the position of a step within the StepCount working
// stages, starting at zero for queued. Terminal steps report the final
// index.
func (s Step) Index() int {
	switch s {
	case StepQueued:
		return 0
	case StepExtracting:
		return 1
	case StepChunking:
		return 2
	case StepEmbedding:
		return 3
	default:
		return StepCount
	}
}

// ProgressEvent describes one pipeline transition for one file.
type ProgressEvent struct {
	// Path identifies the file being processed.
	Path string

	// Step is the stage just entered.
	Step Step

	// StepIndex and StepTotal position the stage in the pipeline.
	StepIndex int
	StepTotal int

	// Detail is free-text context for display.
	Detail string

	// Percent is the completion percentage within the embedding stage,
	// 0-100. Zero elsewhere.
	Percent int

	// Terminal is true for complete/failed events.
	Terminal bool

	// ChunkCount is the number of chunks written, set on complete.
	ChunkCount int

	// Err is the failure description, set on failed.
	Err string
}

// IngestionResult is the per-file outcome of an ingestion call.
// It is ephemeral; the chunks it produced persist in the vector store.
type IngestionResult struct {
	Path           string        `json:"path"`
	Success        bool          `json:"success"`
	ChunkCount     int           `json:"chunk_count"`
	ProcessingTime time.Duration `json:"processing_time"`
	Document       *Document     `json:"document,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// BatchResult aggregates the per-file results of a batch ingestion.
type BatchResult struct {
	BatchID      string            `json:"batch_id"`
	TotalFiles   int               `json:"total_files"`
	SuccessCount int               `json:"success_count"`
	ErrorCount   int               `json:"error_count"`
	Elapsed      time.Duration     `json:"elapsed"`
	Results      []IngestionResult `json:"results"`
}

// ScanEntry describes one candidate file found by a directory scan.
type ScanEntry struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Extension string `json:"extension"`
}

// ScanReport is the outcome of a directory scan. It previews what a
// batch ingestion would touch without paying extraction cost.
type ScanReport struct {
	Root      string      `json:"root"`
	Files     []ScanEntry `json:"files"`
	TotalSize int64       `json:"total_size"`
	Skipped   int         `json:"skipped"`
}
