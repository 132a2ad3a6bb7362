package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/Baricodes/AWS-AI-Assitant/ai"
	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/Baricodes/AWS-AI-Assitant/retry"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// Batches larger than the configured provider limit are split into
// sub-batches; each sub-batch is retried with the shared backoff policy.
type Embedder struct {
	embedder     embeddings.Embedder
	maxBatchSize int
	policy       retry.Policy
	callTimeout  time.Duration
	logger       *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for embeddings
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:     embedder,
		maxBatchSize: config.MaxBatchSize,
		policy:       retry.Policy{MaxAttempts: config.MaxAttempts, BaseDelay: config.RetryBaseDelay},
		callTimeout:  config.RequestTimeout,
		logger:       slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	var vectors [][]float32
	err := e.policy.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()

		var embedErr error
		vectors, embedErr = e.embedder.EmbedDocuments(callCtx, []string{text})
		if embedErr != nil && callCtx.Err() != nil && ctx.Err() == nil {
			// Per-call timeout with the caller still live: retryable.
			return core.NewError(core.KindTransient, "embed", embedErr)
		}
		return classify("embed", embedErr)
	})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
// Inputs beyond the provider batch limit are embedded in sub-batches, in
// input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts), "batchSize", e.maxBatchSize)

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.maxBatchSize {
		end := min(start+e.maxBatchSize, len(texts))
		batch := texts[start:end]

		var vectors [][]float32
		err := e.policy.Do(ctx, func() error {
			callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
			defer cancel()

			var embedErr error
			vectors, embedErr = e.embedder.EmbedDocuments(callCtx, batch)
			if embedErr != nil && callCtx.Err() != nil && ctx.Err() == nil {
				return core.NewError(core.KindTransient, "embed", embedErr)
			}
			return classify("embed", embedErr)
		})
		if err != nil {
			e.logger.Error("failed to generate embeddings", "batchStart", start, "batchLen", len(batch), "err", err)
			return nil, err
		}

		result = append(result, vectors...)
	}

	return result, nil
}
