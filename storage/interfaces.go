package storage

import (
	"context"
	"time"

	"github.com/Baricodes/AWS-AI-Assitant/core"
)

// IngestionRecord tracks per-document ingestion state. It is keyed by the
// deterministic doc_id and answers "is this document already indexed, and
// how many chunks does it have" without scanning the vector index.
type IngestionRecord struct {
	DocID        string
	SourceKey    string
	Status       core.Status
	ChunkCount   int
	ChunksFailed int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IngestionRepository provides operations for managing ingestion records.
// Implementations must be thread-safe and support concurrent access.
type IngestionRepository interface {
	// Put creates or replaces the record for record.DocID.
	// Sets CreatedAt if not already set and updates UpdatedAt.
	// Returns the record with timestamps populated.
	Put(ctx context.Context, record *IngestionRecord) (*IngestionRecord, error)

	// Get retrieves the record for a document.
	// Returns ErrNotFound if no record exists.
	Get(ctx context.Context, docID string) (*IngestionRecord, error)

	// List retrieves all ingestion records, ordered by DocID.
	List(ctx context.Context) ([]*IngestionRecord, error)

	// Delete removes the record for a document.
	// Returns ErrNotFound if no record exists.
	Delete(ctx context.Context, docID string) error

	// Close closes the repository and releases resources.
	Close() error
}
