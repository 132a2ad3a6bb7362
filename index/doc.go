// Package index defines the vector index abstraction that owns chunk
// records. The knowledge base does not implement similarity search itself;
// it delegates to an external k-NN-capable store behind the Store interface.
//
// Two implementations are provided:
//
//   - index/opensearch: production REST client for an OpenSearch kNN index
//   - index/memory: deterministic in-process store for tests and local use
package index
