package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// EmbeddingDim is the fixed dimensionality of chunk and query embeddings.
// The vector index schema is created with this dimension and rejects others.
const EmbeddingDim = 1024

// DocIDFromSourceKey derives a deterministic document ID from a source key
// using BLAKE2b hashing. The same source key always yields the same ID, which
// is what makes re-ingestion idempotent.
func DocIDFromSourceKey(sourceKey string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(sourceKey))
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentMeta carries the descriptive metadata attached to a document at
// ingestion time. All fields are optional except SourceKey.
type DocumentMeta struct {
	SourceKey string // External storage identifier, unique per document
	Title     string
	Source    string // Origin tag, e.g. "s3"
	URL       string
	Tags      []string
}

// ChunkDraft is a chunk produced by the chunker before embedding.
// Seq is the dense, zero-based position of the chunk within its document.
type ChunkDraft struct {
	Seq        int
	Text       string
	TokenCount int
	Section    string
}

// Chunk is the unit of embedding and retrieval stored in the vector index.
// Chunks are keyed by (DocID, ChunkID); re-ingestion overwrites rather than
// duplicates them.
type Chunk struct {
	DocID      string
	ChunkID    int
	Text       string
	TokenCount int
	Embedding  []float32
	Title      string
	Section    string
	Source     string
	S3Key      string
	URL        string
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ScoredChunk is a chunk returned from a k-NN query together with its
// cosine similarity score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Source identifies a document that contributed context to an answer.
type Source struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// Answer is the result of a question against the knowledge base.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
