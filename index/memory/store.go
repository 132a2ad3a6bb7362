package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/Baricodes/AWS-AI-Assitant/index"
)

// Store is an in-process vector store using brute-force cosine similarity.
// It is deterministic and keyed by (doc_id, chunk_id), which makes it a
// faithful stand-in for the external index in tests and local runs.
type Store struct {
	mu      sync.RWMutex
	records map[recordKey]core.Chunk
}

var _ index.Store = (*Store)(nil)

type recordKey struct {
	docID   string
	chunkID int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{records: make(map[recordKey]core.Chunk)}
}

// EnsureIndex is a no-op; the store is its own schema.
func (s *Store) EnsureIndex(ctx context.Context) error {
	return nil
}

// Upsert stores a chunk, replacing any record under the same key.
func (s *Store) Upsert(ctx context.Context, chunk *core.Chunk) error {
	if err := core.ValidateChunk(chunk); err != nil {
		return core.NewError(core.KindPermanent, "index.upsert", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{chunk.DocID, chunk.ChunkID}] = *chunk
	return nil
}

// Delete removes the record keyed by (docID, chunkID), if present.
func (s *Store) Delete(ctx context.Context, docID string, chunkID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, recordKey{docID, chunkID})
	return nil
}

// Query returns up to k chunks by descending cosine similarity.
// Ties break on (doc_id, chunk_id) so results are fully deterministic.
func (s *Store) Query(ctx context.Context, embedding []float32, k int, filters map[string]string) ([]core.ScoredChunk, error) {
	if k <= 0 {
		return nil, core.NewError(core.KindPermanent, "index.query", index.ErrInvalidK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]core.ScoredChunk, 0, len(s.records))
	for _, chunk := range s.records {
		if !matches(&chunk, filters) {
			continue
		}
		results = append(results, core.ScoredChunk{
			Chunk: chunk,
			Score: cosine(chunk.Embedding, embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Chunk.DocID != results[j].Chunk.DocID {
			return results[i].Chunk.DocID < results[j].Chunk.DocID
		}
		return results[i].Chunk.ChunkID < results[j].Chunk.ChunkID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the stored chunk for (docID, chunkID), if any.
func (s *Store) Get(docID string, chunkID int) (core.Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.records[recordKey{docID, chunkID}]
	return chunk, ok
}

func matches(chunk *core.Chunk, filters map[string]string) bool {
	for field, value := range filters {
		switch field {
		case "doc_id":
			if chunk.DocID != value {
				return false
			}
		case "source":
			if chunk.Source != value {
				return false
			}
		case "s3_key":
			if chunk.S3Key != value {
				return false
			}
		case "url":
			if chunk.URL != value {
				return false
			}
		case "tags":
			found := false
			for _, tag := range chunk.Tags {
				if tag == value {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
