package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Baricodes/AWS-AI-Assitant/ai/mock"
	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/Baricodes/AWS-AI-Assitant/index"
)

func testChunk(docID string, chunkID int, text string) *core.Chunk {
	return &core.Chunk{
		DocID:     docID,
		ChunkID:   chunkID,
		Text:      text,
		Embedding: mock.DeterministicVector(text, core.EmbeddingDim),
	}
}

func TestStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Upsert(ctx, testChunk("doc1", 0, "first version")))
	require.NoError(t, store.Upsert(ctx, testChunk("doc1", 0, "second version")))

	assert.Equal(t, 1, store.Len())
	chunk, ok := store.Get("doc1", 0)
	require.True(t, ok)
	assert.Equal(t, "second version", chunk.Text)
}

func TestStore_UpsertRejectsBadDimension(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	chunk := testChunk("doc1", 0, "text")
	chunk.Embedding = []float32{1, 2, 3}

	err := store.Upsert(ctx, chunk)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	assert.Equal(t, 0, store.Len())
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Upsert(ctx, testChunk("doc1", 0, "text")))
	require.NoError(t, store.Delete(ctx, "doc1", 0))
	assert.Equal(t, 0, store.Len())

	// Deleting a missing record is a no-op.
	require.NoError(t, store.Delete(ctx, "doc1", 0))
	require.NoError(t, store.Delete(ctx, "missing", 7))
}

func TestStore_QueryOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	target := "What is identity and access management?"
	require.NoError(t, store.Upsert(ctx, testChunk("doc1", 0, target)))
	require.NoError(t, store.Upsert(ctx, testChunk("doc2", 0, "Completely unrelated content about cooking pasta")))
	require.NoError(t, store.Upsert(ctx, testChunk("doc3", 0, "Another unrelated chunk on gardening")))

	results, err := store.Query(ctx, mock.DeterministicVector(target, core.EmbeddingDim), 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Exact embedding match must rank first with score 1.
	assert.Equal(t, "doc1", results[0].Chunk.DocID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score,
			"results must be sorted by descending score")
	}
}

func TestStore_QueryRespectsK(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Upsert(ctx, testChunk("doc1", i, "chunk text")))
	}

	results, err := store.Query(ctx, mock.DeterministicVector("query", core.EmbeddingDim), 2, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = store.Query(ctx, mock.DeterministicVector("query", core.EmbeddingDim), 0, nil)
	assert.ErrorIs(t, err, index.ErrInvalidK)
}

func TestStore_QueryFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	tagged := testChunk("doc1", 0, "tagged chunk")
	tagged.Source = "s3"
	tagged.Tags = []string{"iam", "security"}
	require.NoError(t, store.Upsert(ctx, tagged))

	other := testChunk("doc2", 0, "other chunk")
	other.Source = "local"
	require.NoError(t, store.Upsert(ctx, other))

	query := mock.DeterministicVector("query", core.EmbeddingDim)

	results, err := store.Query(ctx, query, 10, map[string]string{"source": "s3"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc1", results[0].Chunk.DocID)

	results, err = store.Query(ctx, query, 10, map[string]string{"tags": "security"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc1", results[0].Chunk.DocID)

	results, err = store.Query(ctx, query, 10, map[string]string{"doc_id": "doc2"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc2", results[0].Chunk.DocID)

	results, err = store.Query(ctx, query, 10, map[string]string{"source": "nowhere"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_QueryTieBreakDeterministic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	// Identical embeddings score identically; order must fall back to key.
	for _, docID := range []string{"docB", "docA", "docC"} {
		chunk := testChunk(docID, 0, "identical text")
		require.NoError(t, store.Upsert(ctx, chunk))
	}

	results, err := store.Query(ctx, mock.DeterministicVector("identical text", core.EmbeddingDim), 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "docA", results[0].Chunk.DocID)
	assert.Equal(t, "docB", results[1].Chunk.DocID)
	assert.Equal(t, "docC", results[2].Chunk.DocID)
}
