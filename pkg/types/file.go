package types

import "time"

// File is the file registry record: per source file, its content hash,
// the last time it was indexed, and its cached skeleton (nil for files
// that have never successfully been analyzed).
type File struct {
	Path        string
	Hash        string
	LastIndexed time.Time
	Skeleton    *Skeleton
}

// ChangeState classifies a candidate file relative to the registry, per
// FileRegistry.isChanged's contract.
type ChangeState string

const (
	StateNew       ChangeState = "new"
	StateModified  ChangeState = "modified"
	StateUnchanged ChangeState = "unchanged"
)

// SearchHit is one ranked result of a vector query: the chunk and the
// cosine similarity score that earned it its rank.
type SearchHit struct {
	Score float64
	Chunk Chunk
}

// FileAnalysisResult is the Chunker's output for a single file: the
// chunks and dependency edges it produced, plus the skeleton to cache
// in the registry.
type FileAnalysisResult struct {
	Path     string
	Hash     string
	Chunks   []Chunk
	Edges    []Edge
	Skeleton *Skeleton
}
