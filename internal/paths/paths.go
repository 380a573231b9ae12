package paths

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dastbal/codekb/pkg/types"
)

// ToSlash normalizes an OS-native path to the forward-slash form every
// path recorded in the store uses, regardless of host OS.
func ToSlash(p string) string {
	return filepath.ToSlash(p)
}

// Candidates returns both the forward-slash-normalized and the
// caller-supplied form of p, in that order, deduplicated. Lookups that
// must "tolerate mixed storage" (spec section 4.9) try both.
func Candidates(p string) []string {
	slashed := ToSlash(p)
	if slashed == p {
		return []string{p}
	}
	return []string{slashed, p}
}

// EnsureUnderRoot resolves p against root and returns the path relative
// to root, forward-slash normalized. It returns types.ErrOutOfRoot if p
// escapes root — the ArgumentError case spec.md section 7 requires be
// raised to the caller, not swallowed.
func EnsureUnderRoot(root, p string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	var absPath string
	if filepath.IsAbs(p) {
		absPath = p
	} else {
		absPath = filepath.Join(absRoot, p)
	}
	absPath = filepath.Clean(absPath)

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrOutOfRoot, p)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", types.ErrOutOfRoot, p)
	}

	return ToSlash(rel), nil
}

// ResolveImport resolves a relative module specifier against the
// directory of the importing file, following spec.md section 4.10:
// the literal path, then "<specifier>.<sourceExt>", then
// "<specifier>/index.<sourceExt>" (the barrel-file convention).
// root is the project root; fromFileRelPath is the importing file's
// path relative to root. Returns the resolved path relative to root,
// forward-slash normalized, and whether resolution succeeded.
func ResolveImport(root, fromFileRelPath, specifier, sourceExt string) (string, bool) {
	if !strings.HasPrefix(specifier, ".") {
		// Non-relative specifiers (package names, path aliases) are
		// dropped silently, as specified.
		return "", false
	}

	fromDir := path.Dir(fromFileRelPath)
	joined := path.Clean(path.Join(fromDir, specifier))

	candidates := []string{
		joined,
		joined + "." + sourceExt,
		path.Join(joined, "index."+sourceExt),
	}

	for _, candidate := range candidates {
		absCandidate := filepath.Join(root, filepath.FromSlash(candidate))
		info, err := os.Stat(absCandidate)
		if err == nil && !info.IsDir() {
			return ToSlash(candidate), true
		}
	}

	return "", false
}
