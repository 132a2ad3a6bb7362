// Package mock provides test double implementations of the ai interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Generator,
// and ai.Provider for use in unit tests. The mocks allow tests to run
// without external AI services and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vec, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	gen := mock.NewMockGenerator()
//	gen.GenerateFunc = func(ctx context.Context, prompt string, maxTokens int) (string, error) {
//	    return "canned answer", nil
//	}
//
//	// Check call counts
//	count := gen.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic 1024-dim vectors based on text hash
//   - MockGenerator: Returns a fixed canned answer and records prompts
//   - MockProvider: Aggregates mock embedder and generator
package mock
