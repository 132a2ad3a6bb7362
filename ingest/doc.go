// Package ingest orchestrates the document ingestion pipeline.
//
// A document moves through a fixed sequence of stages: chunking splits
// the raw text into token-bounded, overlapping chunks; embedding turns
// each chunk into a vector; indexing upserts the vectors into the search
// index. Each stage transition is persisted in the ingestion repository,
// so the status of any document can be inspected at any time.
//
// Ingestion is idempotent. Document identity is derived from the source
// key, chunk identity from the document and chunk position, so
// re-ingesting the same document overwrites its previous version in
// place. Chunks left over from a longer previous version are deleted.
//
// Embedding and indexing calls run concurrently on a shared worker pool,
// and individual chunk failures are tolerated up to a configurable
// fraction of the document before the whole document is marked failed.
package ingest
