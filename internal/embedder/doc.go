// Package embedder takes batches of embedding input text (for chunks,
// the text Chunk.EmbeddingInput builds, which already carries the
// structural metadata prefix) and calls an external embedding backend
// over HTTP to obtain dense vectors.
//
// Embeddings are cached by content hash with an LRU so re-indexing
// unchanged method bodies across files never re-calls the backend,
// grounded on the teacher's internal/embedder.Cache.
package embedder
