package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type with no registered extractor.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrDecryptionFailed indicates an encrypted document could not be
	// opened because the password was missing or wrong.
	ErrDecryptionFailed = errors.New("decryption failed: missing or invalid password")

	// ErrEmbeddingUnavailable indicates the embedding runtime is not
	// reachable. Ingestion aborts before any store write.
	ErrEmbeddingUnavailable = errors.New("embedding runtime unavailable")

	// ErrOCRUnavailable indicates the OCR engine is not installed.
	// Image and scanned-document extraction is disabled without it.
	ErrOCRUnavailable = errors.New("OCR engine unavailable")

	// ErrStoreCorrupted indicates the on-disk vector store failed an
	// integrity probe. Recoverable only by rebuild-and-reingest.
	ErrStoreCorrupted = errors.New("vector store corrupted")

	// ErrIngestInProgress indicates an ingestion run is already active.
	ErrIngestInProgress = errors.New("ingestion in progress")
)
