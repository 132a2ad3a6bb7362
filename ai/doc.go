// Package ai provides abstractions for the external AI models the knowledge
// base depends on.
//
// This package defines interfaces for text embedding and answer generation.
// It follows the dependency inversion principle, allowing the ingestion and
// query orchestrators to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates fixed-dimension vector embeddings from text
//   - Generator: Produces answer text from an assembled prompt
//   - Provider: Aggregates both services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.Provider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockGenerator)
// return CONCRETE types to enable test assertions and behavior injection
// via the mock's public methods (CallCount, function fields, Reset).
//
// # Error Classification
//
// Production adapters classify provider failures into the core error kinds
// (transient, permanent, capacity) so that the shared retry policy can
// decide whether another attempt is worthwhile.
package ai
