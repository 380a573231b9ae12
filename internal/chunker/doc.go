// Package chunker is the AST-driven partitioner: it classifies each
// source file (atomic, logic, or config), reconstructs a
// parent/class-signature chunk plus one child chunk per method for
// logic files, generates the per-file skeleton, and extracts
// import-based dependency edges.
//
// Parsing is tree-sitter, not go/ast — the target language is a
// statically typed, decorator-and-class framework, not Go — grounded
// on the same github.com/smacker/go-tree-sitter + TypeScript grammar
// pairing used elsewhere in the retrieved pack for exactly this job.
package chunker
