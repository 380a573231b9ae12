package types

import "errors"

// Sentinel errors for the error kinds named in the engine's error handling
// design. Callers match on these with errors.Is; components wrap them with
// fmt.Errorf("...: %w", err) to add context.
var (
	// ErrNotFound marks a lookup miss that is not itself an error condition
	// (e.g. Skeleton of an unindexed path). Retriever-level callers should
	// treat it as a sentinel, not surface it as a failure.
	ErrNotFound = errors.New("not found")

	// ErrOutOfRoot marks an ArgumentError: a path was asked to resolve
	// outside the project root.
	ErrOutOfRoot = errors.New("path escapes project root")

	// ErrDimensionMismatch marks an ArgumentError: cosine similarity was
	// asked to compare vectors of unequal length.
	ErrDimensionMismatch = errors.New("vector dimensions do not match")

	// ErrParse marks a ParseError: AST construction failed for a file.
	ErrParse = errors.New("parse error")

	// ErrEmbedding marks an EmbeddingError: the embedding backend failed
	// or returned the wrong number of vectors for a batch.
	ErrEmbedding = errors.New("embedding error")
)
