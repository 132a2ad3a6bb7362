// Copyright 2025 Baricodes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/Baricodes/AWS-AI-Assitant/ai"
	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/Baricodes/AWS-AI-Assitant/retry"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	model       string
	policy      retry.Policy
	callTimeout time.Duration
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// The inference profile alias, when configured, takes the place of the
	// model identifier on every generation call.
	model := config.GenerationModelID()

	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken("none"),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		model:       model,
		policy:      retry.Policy{MaxAttempts: config.MaxAttempts, BaseDelay: config.RetryBaseDelay},
		callTimeout: config.RequestTimeout,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate returns generated text for the prompt, capped at maxTokens
// output tokens. Transient failures are retried with backoff; on
// exhaustion the last classified error is returned, never empty content.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	g.logger.Debug("generating answer", "model", g.model, "promptLength", len(prompt), "maxTokens", maxTokens)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	var answer string
	err := g.policy.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()

		response, genErr := g.client.GenerateContent(callCtx, content,
			llms.WithTemperature(0.0),
			llms.WithMaxTokens(maxTokens),
		)
		if genErr != nil {
			if callCtx.Err() != nil && ctx.Err() == nil {
				// Per-call timeout with the caller still live: retryable.
				return core.NewError(core.KindTransient, "generate", genErr)
			}
			return classify("generate", genErr)
		}
		if len(response.Choices) < 1 || response.Choices[0].Content == "" {
			return core.NewError(core.KindPermanent, "generate", errUnexpectedResponse)
		}
		answer = response.Choices[0].Content
		return nil
	})
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	g.logger.Debug("generated answer", "answerLength", len(answer))
	return answer, nil
}
