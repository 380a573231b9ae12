// Package types provides the shared domain types for the code-knowledge
// engine: the file registry record, the dependency edge, the code chunk,
// and the skeleton document that summarizes a file's classes.
//
// These types are intentionally storage-agnostic; internal/store converts
// between them and their SQL row representation.
package types
