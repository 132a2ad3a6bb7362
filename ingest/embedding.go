package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Baricodes/AWS-AI-Assitant/core"
)

// embedResult holds the vector for a single chunk, or the error that
// prevented it from being embedded.
type embedResult struct {
	vector []float32
	err    error
}

// embedDrafts embeds all drafts in batches, running batches concurrently
// on the worker pool. Results line up with drafts by position.
//
// A batch request fails as a unit, so when one fails with a permanent
// error the batch is retried item by item. That isolates a single bad
// chunk instead of failing its whole batch alongside it. Retryable
// failures already went through the embedder's retry policy, so the
// batch is simply marked failed.
func (o *Orchestrator) embedDrafts(ctx context.Context, drafts []core.ChunkDraft, logger *slog.Logger) []embedResult {
	results := make([]embedResult, len(drafts))

	var wg sync.WaitGroup
	for start := 0; start < len(drafts); start += o.batchSize {
		end := min(start+o.batchSize, len(drafts))

		wg.Add(1)
		submitErr := o.pool.Submit(func() {
			defer wg.Done()
			o.embedBatch(ctx, drafts[start:end], results[start:end], logger)
		})
		if submitErr != nil {
			wg.Done()
			for i := start; i < end; i++ {
				results[i].err = submitErr
			}
		}
	}
	wg.Wait()

	return results
}

// embedBatch embeds one batch of drafts, falling back to per-item
// requests when the batch fails permanently.
func (o *Orchestrator) embedBatch(ctx context.Context, drafts []core.ChunkDraft, results []embedResult, logger *slog.Logger) {
	texts := make([]string, len(drafts))
	for i, draft := range drafts {
		texts[i] = draft.Text
	}

	vectors, err := o.embedder.EmbedTexts(ctx, texts)
	if err == nil {
		if len(vectors) != len(drafts) {
			err = fmt.Errorf("embedding result mismatch. expected %d, received %d", len(drafts), len(vectors))
			for i := range results {
				results[i].err = err
			}
			return
		}
		for i := range vectors {
			results[i] = checkedVector(vectors[i])
		}
		return
	}

	if core.IsRetryable(err) {
		logger.Warn("batch embedding failed", "chunks", len(drafts), "err", err)
		for i := range results {
			results[i].err = err
		}
		return
	}

	// Permanent failure: retry item by item to isolate the bad chunk.
	logger.Warn("batch embedding failed, retrying per chunk", "chunks", len(drafts), "err", err)
	for i, draft := range drafts {
		vector, itemErr := o.embedder.EmbedText(ctx, draft.Text)
		if itemErr != nil {
			results[i].err = itemErr
			continue
		}
		results[i] = checkedVector(vector)
	}
}

// checkedVector validates the embedding dimension before accepting it.
func checkedVector(vector []float32) embedResult {
	if len(vector) != core.EmbeddingDim {
		return embedResult{err: fmt.Errorf("%w: got %d, want %d",
			core.ErrDimensionMismatch, len(vector), core.EmbeddingDim)}
	}
	return embedResult{vector: vector}
}
