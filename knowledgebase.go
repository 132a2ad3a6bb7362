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

package assistant

import (
	"log/slog"

	"github.com/Baricodes/AWS-AI-Assitant/ai"
	"github.com/Baricodes/AWS-AI-Assitant/ai/openai"
	"github.com/Baricodes/AWS-AI-Assitant/chunk"
	"github.com/Baricodes/AWS-AI-Assitant/index"
	"github.com/Baricodes/AWS-AI-Assitant/index/memory"
	"github.com/Baricodes/AWS-AI-Assitant/index/opensearch"
	"github.com/Baricodes/AWS-AI-Assitant/ingest"
	"github.com/Baricodes/AWS-AI-Assitant/query"
	"github.com/Baricodes/AWS-AI-Assitant/storage"
	"github.com/Baricodes/AWS-AI-Assitant/storage/badger"
)

// Default chunking configuration.
const (
	DefaultChunkBudget  = 512
	DefaultChunkOverlap = 64
)

// KnowledgeBase wires the storage backend, the vector index, and the AI
// provider into a document question-answering system.
type KnowledgeBase struct {
	backend       *badger.Backend
	ingestionRepo storage.IngestionRepository
	store         index.Store
	provider      ai.Provider
	chunker       *chunk.Chunker
	logger        *slog.Logger
}

// KnowledgeBaseOption configures a KnowledgeBase.
type KnowledgeBaseOption func(*knowledgeBaseOptions)

type knowledgeBaseOptions struct {
	aiConfig     *ai.Config
	store        index.Store
	searchConfig *opensearch.Config
	chunkBudget  int
	chunkOverlap int
}

// WithAIConfig sets the embedding and generation configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithOpenSearch directs indexing and retrieval at an OpenSearch cluster.
func WithOpenSearch(config opensearch.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.searchConfig = &config
	}
}

// WithIndexStore injects a vector index store directly. Takes precedence
// over WithOpenSearch. Default is an in-process store, which serves
// local work and tests but does not persist across restarts.
func WithIndexStore(store index.Store) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.store = store
	}
}

// WithChunking sets the chunk token budget and overlap.
// Defaults are DefaultChunkBudget and DefaultChunkOverlap.
func WithChunking(budget, overlap int) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.chunkBudget = budget
		o.chunkOverlap = overlap
	}
}

// NewKnowledgeBase opens a knowledge base with its metadata store at
// filePath.
func NewKnowledgeBase(filePath string, opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	options := &knowledgeBaseOptions{
		aiConfig:     ai.DefaultConfig(),
		chunkBudget:  DefaultChunkBudget,
		chunkOverlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(options)
	}

	chunker, err := chunk.NewChunker(options.chunkBudget, options.chunkOverlap)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	ingestionRepo, err := badger.NewIngestionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	store := options.store
	if store == nil && options.searchConfig != nil {
		store, err = opensearch.NewClient(*options.searchConfig)
		if err != nil {
			ingestionRepo.Close()
			backend.Close()
			return nil, err
		}
	}
	if store == nil {
		store = memory.NewStore()
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		store.Close()
		ingestionRepo.Close()
		backend.Close()
		return nil, err
	}

	return &KnowledgeBase{
		backend:       backend,
		ingestionRepo: ingestionRepo,
		store:         store,
		provider:      provider,
		chunker:       chunker,
		logger:        slog.Default(),
	}, nil
}

func (kb *KnowledgeBase) Close() error {
	// Close AI provider first
	if err := kb.provider.Close(); err != nil {
		kb.logger.Error("error closing AI provider", "err", err)
	}

	if err := kb.store.Close(); err != nil {
		kb.logger.Error("error closing vector index", "err", err)
	}

	if err := kb.ingestionRepo.Close(); err != nil {
		kb.logger.Error("error closing ingestion repository", "err", err)
		return err
	}

	if err := kb.backend.Close(); err != nil {
		kb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (kb *KnowledgeBase) IngestionRepository() storage.IngestionRepository {
	return kb.ingestionRepo
}

func (kb *KnowledgeBase) IndexStore() index.Store {
	return kb.store
}

func (kb *KnowledgeBase) Chunker() *chunk.Chunker {
	return kb.chunker
}

func (kb *KnowledgeBase) NewIngestOrchestrator(opts ...ingest.Option) (*ingest.Orchestrator, error) {
	return ingest.NewOrchestrator(kb.chunker, kb.provider.Embedder(), kb.store, kb.ingestionRepo, opts...)
}

func (kb *KnowledgeBase) NewAnswerer(opts ...query.Option) (*query.Answerer, error) {
	return query.NewAnswerer(kb.store, kb.provider.Embedder(), kb.provider.Generator(), opts...)
}
