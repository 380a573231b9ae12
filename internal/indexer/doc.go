// Package indexer orchestrates the indexing pipeline: enumerate files,
// detect changes, analyze via the chunker, persist the dependency
// graph, then embed and persist chunks. It follows spec.md section
// 4.3's two-pass-before-embedding ordering for referential integrity,
// and runs cooperatively single-threaded per section 5 — the embedder
// is the only component permitted to fan work out concurrently, and
// only within a single batch.
package indexer
