// Copyright 2025 Baricodes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/Baricodes/AWS-AI-Assitant/ai"
	"github.com/Baricodes/AWS-AI-Assitant/chunk"
	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/Baricodes/AWS-AI-Assitant/index"
	"github.com/Baricodes/AWS-AI-Assitant/storage"
)

// DefaultFailureTolerance is the fraction of chunks that may fail embedding
// or indexing before the whole document is marked failed.
const DefaultFailureTolerance = 0.20

// DefaultBatchSize is the number of chunks embedded per request.
const DefaultBatchSize = 16

// Orchestrator runs documents through the ingestion stages: chunking,
// embedding, and indexing. Progress is tracked per document in the
// ingestion repository so interrupted or failed runs are observable.
type Orchestrator struct {
	chunker          *chunk.Chunker
	embedder         ai.Embedder
	store            index.Store
	repository       storage.IngestionRepository
	pool             *ants.Pool
	batchSize        int
	failureTolerance float64
	logger           *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size for concurrent embedding and
// indexing calls. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}

		if o.pool != nil {
			o.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		o.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per request.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		o.batchSize = size
		return nil
	}
}

// WithFailureTolerance sets the fraction of chunks allowed to fail before
// the document is marked failed. Default is DefaultFailureTolerance.
func WithFailureTolerance(tolerance float64) Option {
	return func(o *Orchestrator) error {
		if tolerance < 0 || tolerance >= 1 {
			return fmt.Errorf("failure tolerance must be in [0, 1): %f", tolerance)
		}
		o.failureTolerance = tolerance
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a new ingestion orchestrator.
func NewOrchestrator(
	chunker *chunk.Chunker,
	embedder ai.Embedder,
	store index.Store,
	repository storage.IngestionRepository,
	opts ...Option,
) (*Orchestrator, error) {
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if embedder == nil {
		return nil, ErrProviderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		chunker:          chunker,
		embedder:         embedder,
		store:            store,
		repository:       repository,
		pool:             pool,
		batchSize:        DefaultBatchSize,
		failureTolerance: DefaultFailureTolerance,
		logger:           slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// Result reports the outcome of ingesting a single document.
type Result struct {
	DocID         string
	Status        core.Status
	ChunksIndexed int
	ChunksFailed  int
	Reason        string
}

// Ingest processes a document end to end: split into chunks, embed each
// chunk, and upsert the results into the vector index. Re-ingesting the
// same source key overwrites the previous version chunk by chunk; chunks
// beyond the new count are deleted so the index never serves stale text.
//
// Partial failures are tolerated up to the configured failure tolerance.
// A document-level failure is reported in the result, not as an error;
// the returned error covers infrastructure problems only.
func (o *Orchestrator) Ingest(ctx context.Context, rawText string, meta core.DocumentMeta) (*Result, error) {
	if err := core.ValidateDocumentMeta(&meta); err != nil {
		return nil, err
	}

	docID := core.DocIDFromSourceKey(meta.SourceKey)
	logger := o.logger.With("docID", docID, "sourceKey", meta.SourceKey)

	// Previous chunk count drives stale chunk cleanup on re-ingestion.
	previousCount := 0
	firstIngested := time.Time{}
	previous, err := o.repository.Get(ctx, docID)
	switch {
	case err == nil:
		previousCount = previous.ChunkCount
		firstIngested = previous.CreatedAt
	case errors.Is(err, storage.ErrNotFound):
		// First ingestion of this source key.
	default:
		return nil, err
	}

	// The previous chunk count is carried until stale cleanup has run.
	// If this run fails early, the next re-ingest still knows how many
	// chunks the last indexed version left behind.
	record := &storage.IngestionRecord{
		DocID:      docID,
		SourceKey:  meta.SourceKey,
		Status:     core.StatusPending,
		ChunkCount: previousCount,
		CreatedAt:  firstIngested,
	}
	record, err = o.repository.Put(ctx, record)
	if err != nil {
		return nil, err
	}

	if err = o.advance(ctx, record, core.StatusChunking); err != nil {
		return nil, err
	}

	logger.Info("chunking document", "bytes", len(rawText))
	drafts, err := o.chunker.Split(rawText)
	if err != nil {
		return o.fail(ctx, record, fmt.Sprintf("chunking: %v", err))
	}

	if len(drafts) == 0 {
		// Nothing to index. Still a successful ingestion, and any chunks
		// from a previous version must go.
		if o.deleteStale(ctx, docID, 0, previousCount, logger) {
			record.ChunkCount = 0
		}
		record.ChunksFailed = 0
		if err = o.advance(ctx, record, core.StatusComplete); err != nil {
			return nil, err
		}
		logger.Info("document produced no chunks", "status", record.Status)
		return &Result{DocID: docID, Status: core.StatusComplete}, nil
	}

	if err = o.advance(ctx, record, core.StatusEmbedding); err != nil {
		return nil, err
	}

	logger.Info("embedding chunks", "chunks", len(drafts))
	vectors := o.embedDrafts(ctx, drafts, logger)

	if err = o.advance(ctx, record, core.StatusIndexing); err != nil {
		return nil, err
	}

	if err = o.store.EnsureIndex(ctx); err != nil {
		return o.fail(ctx, record, fmt.Sprintf("ensuring index: %v", err))
	}

	indexed, failed := o.indexChunks(ctx, docID, drafts, vectors, meta, record.CreatedAt, logger)

	cleaned := o.deleteStale(ctx, docID, len(drafts), previousCount, logger)

	record.ChunkCount = len(drafts)
	if !cleaned && previousCount > len(drafts) {
		// Keep the larger count so the next re-ingest retries the cleanup.
		record.ChunkCount = previousCount
	}
	record.ChunksFailed = failed

	if indexed == 0 || float64(failed)/float64(len(drafts)) > o.failureTolerance {
		reason := fmt.Sprintf("%d of %d chunks failed", failed, len(drafts))
		result, err := o.fail(ctx, record, reason)
		if result != nil {
			result.ChunksIndexed = indexed
			result.ChunksFailed = failed
		}
		return result, err
	}

	if err = o.advance(ctx, record, core.StatusComplete); err != nil {
		return nil, err
	}

	logger.Info("document ingested", "indexed", indexed, "failed", failed)
	return &Result{
		DocID:         docID,
		Status:        core.StatusComplete,
		ChunksIndexed: indexed,
		ChunksFailed:  failed,
	}, nil
}

// advance moves the record to the next status and persists it.
func (o *Orchestrator) advance(ctx context.Context, record *storage.IngestionRecord, next core.Status) error {
	moved, err := record.Status.Transition(next)
	if err != nil {
		return err
	}
	record.Status = moved
	updated, err := o.repository.Put(ctx, record)
	if err != nil {
		return err
	}
	*record = *updated
	return nil
}

// fail marks the record failed with the given reason. The failure is
// reported in the result; only persistence errors surface as errors.
func (o *Orchestrator) fail(ctx context.Context, record *storage.IngestionRecord, reason string) (*Result, error) {
	o.logger.Error("ingestion failed", "docID", record.DocID, "reason", reason)
	record.LastError = reason
	if err := o.advance(ctx, record, core.StatusFailed); err != nil {
		return nil, err
	}
	return &Result{
		DocID:  record.DocID,
		Status: core.StatusFailed,
		Reason: reason,
	}, nil
}

// indexChunks upserts embedded chunks concurrently. Chunks whose embedding
// failed are skipped and counted as failed. Returns (indexed, failed).
func (o *Orchestrator) indexChunks(
	ctx context.Context,
	docID string,
	drafts []core.ChunkDraft,
	vectors []embedResult,
	meta core.DocumentMeta,
	firstIngested time.Time,
	logger *slog.Logger,
) (int, int) {
	now := time.Now().UTC()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		indexed int
		failed  int
	)

	// Embedding failures are counted before any worker is submitted, so
	// only the workers themselves touch the counters concurrently.
	for i := range drafts {
		if vectors[i].err != nil {
			logger.Warn("skipping chunk with failed embedding",
				"chunkID", drafts[i].Seq, "err", vectors[i].err)
			failed++
		}
	}

	for i := range drafts {
		if vectors[i].err != nil {
			continue
		}

		record := core.Chunk{
			DocID:      docID,
			ChunkID:    drafts[i].Seq,
			Text:       drafts[i].Text,
			TokenCount: drafts[i].TokenCount,
			Embedding:  vectors[i].vector,
			Title:      meta.Title,
			Section:    drafts[i].Section,
			Source:     meta.Source,
			S3Key:      meta.SourceKey,
			URL:        meta.URL,
			Tags:       meta.Tags,
			CreatedAt:  firstIngested,
			UpdatedAt:  now,
		}

		wg.Add(1)
		submitErr := o.pool.Submit(func() {
			defer wg.Done()
			if err := o.store.Upsert(ctx, &record); err != nil {
				logger.Warn("error indexing chunk", "chunkID", record.ChunkID, "err", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			indexed++
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			logger.Warn("error submitting chunk for indexing", "chunkID", record.ChunkID, "err", submitErr)
			mu.Lock()
			failed++
			mu.Unlock()
		}
	}

	wg.Wait()
	return indexed, failed
}

// deleteStale removes chunks left over from a longer previous version of
// the document. A failed delete is logged, not fatal; the return value
// reports whether every stale chunk was removed so the caller can keep
// the old chunk count and retry the cleanup on the next ingestion.
func (o *Orchestrator) deleteStale(ctx context.Context, docID string, newCount, oldCount int, logger *slog.Logger) bool {
	ok := true
	for chunkID := newCount; chunkID < oldCount; chunkID++ {
		if err := o.store.Delete(ctx, docID, chunkID); err != nil {
			logger.Warn("error deleting stale chunk", "chunkID", chunkID, "err", err)
			ok = false
		}
	}
	return ok
}

// Release releases the worker pool.
// The orchestrator should not be used after calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}
