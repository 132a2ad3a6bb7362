// Package chunk splits extracted document text into bounded, ordered text
// units for embedding and indexing.
//
// Chunk boundaries are a pure function of the input text and the chunker
// configuration. Ingestion relies on this: re-ingesting the same document
// reproduces the same chunk sequence, so index writes overwrite instead of
// duplicating.
package chunk
