package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/Baricodes/AWS-AI-Assitant/ai"
	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/Baricodes/AWS-AI-Assitant/index"
)

// FallbackAnswer is returned when retrieval produces no chunk above the
// score threshold. The generator is not called in that case.
const FallbackAnswer = "I don't have enough information in the knowledge base to answer that question."

// Defaults for the retrieval and generation stages.
const (
	DefaultTopK               = 5
	DefaultScoreThreshold     = 0.5
	DefaultContextTokenBudget = 3000
	DefaultMaxAnswerTokens    = 1024
	DefaultTimeout            = 60 * time.Second
)

// Answerer answers questions from the indexed document base: it embeds
// the question, retrieves the closest chunks, assembles a grounded
// prompt, and generates an answer with deduplicated source attribution.
type Answerer struct {
	store              index.Store
	embedder           ai.Embedder
	generator          ai.Generator
	topK               int
	scoreThreshold     float64
	contextTokenBudget int
	maxAnswerTokens    int
	timeout            time.Duration
	filters            map[string]string
	logger             *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithTopK sets how many chunks are retrieved from the index.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(a *Answerer) error {
		if k < 1 {
			k = 1
		}
		a.topK = k
		return nil
	}
}

// WithScoreThreshold sets the minimum similarity score a retrieved chunk
// needs to be used as context. Default is DefaultScoreThreshold.
func WithScoreThreshold(threshold float64) Option {
	return func(a *Answerer) error {
		a.scoreThreshold = threshold
		return nil
	}
}

// WithContextTokenBudget caps the total tokens of chunk text included in
// the prompt. Default is DefaultContextTokenBudget.
func WithContextTokenBudget(budget int) Option {
	return func(a *Answerer) error {
		if budget < 1 {
			budget = 1
		}
		a.contextTokenBudget = budget
		return nil
	}
}

// WithMaxAnswerTokens caps the length of the generated answer.
// Default is DefaultMaxAnswerTokens.
func WithMaxAnswerTokens(tokens int) Option {
	return func(a *Answerer) error {
		if tokens < 1 {
			tokens = 1
		}
		a.maxAnswerTokens = tokens
		return nil
	}
}

// WithTimeout sets the overall deadline for answering one question.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Answerer) error {
		if timeout > 0 {
			a.timeout = timeout
		}
		return nil
	}
}

// WithFilters restricts retrieval to chunks matching the given metadata
// fields, for example {"source": "runbook"}. Default is no filtering.
func WithFilters(filters map[string]string) Option {
	return func(a *Answerer) error {
		a.filters = filters
		return nil
	}
}

// NewAnswerer creates a new answerer.
func NewAnswerer(store index.Store, embedder ai.Embedder, generator ai.Generator, opts ...Option) (*Answerer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil || generator == nil {
		return nil, ErrProviderRequired
	}

	a := &Answerer{
		store:              store,
		embedder:           embedder,
		generator:          generator,
		topK:               DefaultTopK,
		scoreThreshold:     DefaultScoreThreshold,
		contextTokenBudget: DefaultContextTokenBudget,
		maxAnswerTokens:    DefaultMaxAnswerTokens,
		timeout:            DefaultTimeout,
		logger:             slog.Default().With("component", "query"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Answer answers the question from the indexed documents.
func (a *Answerer) Answer(ctx context.Context, question string) (*core.Answer, error) {
	return a.AnswerWithMonitor(ctx, question, nil)
}

// AnswerWithMonitor answers the question with monitoring. The monitor
// receives callbacks at each stage of the answering process.
//
// When no retrieved chunk clears the score threshold, a fixed fallback
// answer with no sources is returned and the generator is never called.
func (a *Answerer) AnswerWithMonitor(ctx context.Context, question string, monitor QueryMonitor) (*core.Answer, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := core.ValidateQuestion(question); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	monitor.Start(question)

	embedding, err := a.embedder.EmbedText(ctx, question)
	if err != nil {
		a.logger.Error("error embedding question", "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(len(embedding))

	hits, err := a.store.Query(ctx, embedding, a.topK, a.filters)
	if err != nil {
		a.logger.Error("error querying index", "err", err)
		return nil, err
	}
	monitor.AfterRetrieval(hits)

	kept := hits[:0:0]
	for _, hit := range hits {
		if hit.Score >= a.scoreThreshold {
			kept = append(kept, hit)
		}
	}
	monitor.AfterThreshold(kept)

	if len(kept) == 0 {
		a.logger.Info("no chunks above threshold", "retrieved", len(hits), "threshold", a.scoreThreshold)
		answer := &core.Answer{Answer: FallbackAnswer, Sources: []core.Source{}}
		monitor.Finish(answer)
		return answer, nil
	}

	// Fill the context window in score order and stop at the first chunk
	// that would overflow it, so the prompt always carries the best hits.
	used := make([]core.ScoredChunk, 0, len(kept))
	budget := a.contextTokenBudget
	for _, hit := range kept {
		if hit.Chunk.TokenCount > budget {
			break
		}
		budget -= hit.Chunk.TokenCount
		used = append(used, hit)
	}
	if len(used) == 0 {
		// The best chunk alone exceeds the budget. Use it anyway rather
		// than answering from nothing; the generator sees one oversized
		// snippet instead of zero.
		used = kept[:1]
	}

	prompt := BuildPrompt(question, used)
	monitor.AfterPromptAssembly(prompt, len(used))

	a.logger.Debug("generating answer", "chunks", len(used), "promptBytes", len(prompt))
	text, err := a.generator.Generate(ctx, prompt, a.maxAnswerTokens)
	if err != nil {
		a.logger.Error("error generating answer", "err", err)
		return nil, err
	}

	answer := &core.Answer{
		Answer:  text,
		Sources: dedupeSources(used),
	}
	monitor.Finish(answer)

	return answer, nil
}

// dedupeSources collapses chunks of the same document into one source,
// keeping the best score. Order follows the first appearance of each
// document in the ranked chunk list.
func dedupeSources(chunks []core.ScoredChunk) []core.Source {
	seen := make(map[string]int, len(chunks))
	sources := make([]core.Source, 0, len(chunks))

	for _, hit := range chunks {
		key := hit.Chunk.DocID + "\x00" + hit.Chunk.Title
		if pos, ok := seen[key]; ok {
			if hit.Score > sources[pos].Score {
				sources[pos].Score = hit.Score
			}
			continue
		}
		seen[key] = len(sources)
		sources = append(sources, core.Source{
			Title: hit.Chunk.Title,
			URL:   hit.Chunk.URL,
			Score: hit.Score,
		})
	}

	return sources
}
