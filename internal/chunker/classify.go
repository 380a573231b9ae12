package chunker

import "strings"

// fileKind is the internal classification of a source file, driving
// which chunking strategy Analyze applies.
type fileKind int

const (
	kindLogic fileKind = iota
	kindAtomic
	kindConfig
)

// SourceExtension is the language's source file extension (without the
// leading dot), used both for atomic-suffix detection and import
// resolution.
const SourceExtension = "ts"

// TestSpecSuffix marks files the indexer's enumeration step excludes,
// by suffix only, regardless of directory.
const TestSpecSuffix = ".spec." + SourceExtension

// atomicSuffixes precede the source extension on data-shape files whose
// meaning is inseparable; see classify.
var atomicSuffixes = []string{".dto", ".entity", ".interface", ".enum", ".type"}

// configSuffixes mark bootstrap/wiring files. They are chunked as logic
// files; the classification exists so callers can report it, and so a
// future version can special-case edge weighting without touching the
// chunking algorithm.
var configSuffixes = []string{".module"}

// classify inspects path's suffix (not its content) to choose a file
// kind, per the atomic/logic/config rule.
func classify(path string) fileKind {
	base := strings.TrimSuffix(path, "."+SourceExtension)
	for _, suf := range atomicSuffixes {
		if strings.HasSuffix(base, suf) {
			return kindAtomic
		}
	}
	for _, suf := range configSuffixes {
		if strings.HasSuffix(base, suf) {
			return kindConfig
		}
	}
	return kindLogic
}

// IsSourceFile reports whether name has the source extension.
func IsSourceFile(name string) bool {
	return strings.HasSuffix(name, "."+SourceExtension)
}

// IsTestSpec reports whether name is excluded from enumeration as a
// test-spec file.
func IsTestSpec(name string) bool {
	return strings.HasSuffix(name, TestSpecSuffix)
}
