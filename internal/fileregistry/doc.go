// Package fileregistry tracks, per source file, the content hash,
// last-index timestamp, and cached skeleton, and answers whether a
// file needs (re-)analysis. It is a thin, hash-based change-detection
// layer over internal/store — cheaper than parsing, and what makes
// repeated IndexProject calls idempotent.
package fileregistry
