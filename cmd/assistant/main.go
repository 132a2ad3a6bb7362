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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	assistant "github.com/Baricodes/AWS-AI-Assitant"
	"github.com/Baricodes/AWS-AI-Assitant/ai"
	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/Baricodes/AWS-AI-Assitant/index/opensearch"
	"github.com/Baricodes/AWS-AI-Assitant/ingest"
	"github.com/Baricodes/AWS-AI-Assitant/query"
	"github.com/Baricodes/AWS-AI-Assitant/storage"
)

func main() {
	app := &cli.App{
		Name:  "assistant",
		Usage: "Document knowledge base with retrieval-grounded answers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB metadata directory",
				EnvVars: []string{"ASSISTANT_DB"},
				Value:   "assistant.db",
			},
			&cli.StringFlag{
				Name:    "ai-host",
				Usage:   "OpenAI-compatible service host URL",
				EnvVars: []string{"AI_HOST"},
				Value:   "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:    "embed-model",
				Usage:   "Embedding model identifier",
				EnvVars: []string{"EMBED_MODEL_ID"},
				Value:   "embeddinggemma",
			},
			&cli.StringFlag{
				Name:    "gen-model",
				Usage:   "Generation model identifier",
				EnvVars: []string{"GEN_MODEL_ID"},
				Value:   "qwen2.5:3b",
			},
			&cli.StringFlag{
				Name:    "inference-profile",
				Usage:   "Inference profile alias, used instead of gen-model when set",
				EnvVars: []string{"GEN_INFERENCE_PROFILE_ID"},
			},
			&cli.StringFlag{
				Name:    "opensearch-endpoint",
				Usage:   "OpenSearch endpoint URL (omit to use the in-process index)",
				EnvVars: []string{"OPENSEARCH_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "opensearch-index",
				Usage:   "OpenSearch index name",
				EnvVars: []string{"OPENSEARCH_INDEX"},
				Value:   "kb-chunks",
			},
			&cli.StringFlag{
				Name:    "opensearch-username",
				EnvVars: []string{"OPENSEARCH_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "opensearch-password",
				EnvVars: []string{"OPENSEARCH_PASSWORD"},
			},
			&cli.IntFlag{
				Name:    "chunk-budget",
				Usage:   "Chunk token budget",
				EnvVars: []string{"CHUNK_TOKEN_BUDGET"},
				Value:   assistant.DefaultChunkBudget,
			},
			&cli.IntFlag{
				Name:    "chunk-overlap",
				Usage:   "Chunk overlap in tokens",
				EnvVars: []string{"CHUNK_OVERLAP"},
				Value:   assistant.DefaultChunkOverlap,
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest one or more text files into the knowledge base",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source label stored on every chunk",
						Value: "local",
					},
					&cli.StringFlag{
						Name:  "url-prefix",
						Usage: "URL prefix recorded per file for source attribution",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag applied to every chunk (repeatable)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 1,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question against the ingested documents",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:    "threshold",
						Usage:   "Minimum similarity score for a chunk to be used",
						EnvVars: []string{"SCORE_THRESHOLD"},
						Value:   query.DefaultScoreThreshold,
					},
					&cli.IntFlag{
						Name:    "context-budget",
						Usage:   "Token budget for retrieved context in the prompt",
						EnvVars: []string{"CONTEXT_TOKEN_BUDGET"},
						Value:   query.DefaultContextTokenBudget,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks retrieved from the index",
						Value: query.DefaultTopK,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall deadline for answering",
						Value: query.DefaultTimeout,
					},
				},
			},
			{
				Name:      "status",
				Usage:     "Show the ingestion status of a source key, or all documents",
				ArgsUsage: "[SOURCE_KEY]",
				Action:    statusCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openKnowledgeBase(c *cli.Context) (*assistant.KnowledgeBase, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embed-model")),
		ai.WithGenerationModel(c.String("gen-model")),
		ai.WithInferenceProfile(c.String("inference-profile")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []assistant.KnowledgeBaseOption{
		assistant.WithAIConfig(aiConfig),
		assistant.WithChunking(c.Int("chunk-budget"), c.Int("chunk-overlap")),
	}

	if endpoint := c.String("opensearch-endpoint"); endpoint != "" {
		opts = append(opts, assistant.WithOpenSearch(opensearch.Config{
			Endpoint: endpoint,
			Index:    c.String("opensearch-index"),
			Username: c.String("opensearch-username"),
			Password: c.String("opensearch-password"),
		}))
	}

	return assistant.NewKnowledgeBase(c.String("db"), opts...)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	orchestrator, err := kb.NewIngestOrchestrator()
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Release()

	files := c.Args().Slice()
	tracker := ingest.NewProgressTracker(os.Stderr, len(files), c.Int("report-interval"))
	tracker.Start()

	ctx := context.Background()
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		meta := core.DocumentMeta{
			SourceKey: file,
			Title:     strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
			Source:    c.String("source"),
			Tags:      c.StringSlice("tag"),
		}
		if prefix := c.String("url-prefix"); prefix != "" {
			meta.URL = strings.TrimSuffix(prefix, "/") + "/" + filepath.Base(file)
		}

		result, err := orchestrator.Ingest(ctx, string(raw), meta)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", file, err)
		}
		if result.Status == core.StatusFailed {
			fmt.Fprintf(os.Stderr, "\n%s: FAILED (%s)\n", file, result.Reason)
		}
		tracker.Document(result.Status == core.StatusFailed)
	}
	tracker.Finish()

	failures := tracker.Failed()
	fmt.Fprintf(os.Stderr, "Ingested %d documents in %s (%d failed)\n",
		len(files)-failures, tracker.Elapsed().Round(time.Millisecond), failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(files))
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one question is required")
	}
	question := c.Args().First()

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	answerer, err := kb.NewAnswerer(
		query.WithScoreThreshold(c.Float64("threshold")),
		query.WithContextTokenBudget(c.Int("context-budget")),
		query.WithTopK(c.Int("top-k")),
		query.WithTimeout(c.Duration("timeout")),
	)
	if err != nil {
		return fmt.Errorf("failed to create answerer: %w", err)
	}

	answer, err := answerer.Answer(context.Background(), question)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	fmt.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, source := range answer.Sources {
			if source.URL != "" {
				fmt.Printf("  - %s (%s) score=%.3f\n", source.Title, source.URL, source.Score)
				continue
			}
			fmt.Printf("  - %s score=%.3f\n", source.Title, source.Score)
		}
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	kb, err := openKnowledgeBase(c)
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	ctx := context.Background()
	repo := kb.IngestionRepository()

	var records []*storage.IngestionRecord
	if c.NArg() > 0 {
		record, err := repo.Get(ctx, core.DocIDFromSourceKey(c.Args().First()))
		if err != nil {
			return fmt.Errorf("failed to look up document: %w", err)
		}
		records = append(records, record)
	} else {
		records, err = repo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
	}

	for _, record := range records {
		fmt.Printf("%s  %-9s  chunks=%d failed=%d  updated=%s\n",
			record.SourceKey, record.Status, record.ChunkCount, record.ChunksFailed,
			record.UpdatedAt.Format(time.RFC3339))
		if record.LastError != "" {
			fmt.Printf("  last error: %s\n", record.LastError)
		}
	}
	return nil
}

func setup(c *cli.Context) error {
	// Optional .env file for local development; missing is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("error loading .env file", "err", err)
	}

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
