package ingest

import "errors"

var (
	// ErrChunkerRequired is returned when a chunker is not provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrStoreRequired is returned when a vector index store is not provided.
	ErrStoreRequired = errors.New("vector index store required")

	// ErrRepositoryRequired is returned when an ingestion repository is not provided.
	ErrRepositoryRequired = errors.New("ingestion repository required")
)
