package query

import "errors"

var (
	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrStoreRequired is returned when a vector index store is not provided.
	ErrStoreRequired = errors.New("vector index store required")
)
