package index

import (
	"context"

	"github.com/Baricodes/AWS-AI-Assitant/core"
)

// Store persists chunk records in a k-NN-capable vector index.
// Implementations must be thread-safe and support concurrent access.
//
// Every write is keyed by (doc_id, chunk_id) and idempotent: upserting an
// existing key replaces the stored record. Concurrent upserts for the same
// key leave the last writer's value, which is acceptable because
// re-ingestion intentionally overwrites.
type Store interface {
	// EnsureIndex creates the target index with the fixed chunk schema if
	// it does not exist yet. A second creation attempt is a no-op, not an
	// error, so concurrent first uses are safe.
	EnsureIndex(ctx context.Context) error

	// Upsert writes a chunk record keyed by (DocID, ChunkID), replacing
	// any previous record under the same key.
	Upsert(ctx context.Context, chunk *core.Chunk) error

	// Delete removes the record keyed by (docID, chunkID).
	// Deleting a missing record is a no-op.
	Delete(ctx context.Context, docID string, chunkID int) error

	// Query returns up to k chunks nearest to the embedding under cosine
	// similarity, sorted by descending score. Filters, when non-nil,
	// restrict results to records whose named fields exactly match.
	Query(ctx context.Context, embedding []float32, k int, filters map[string]string) ([]core.ScoredChunk, error)

	// Close releases resources held by the store.
	Close() error
}
