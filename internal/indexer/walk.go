package indexer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dastbal/codekb/internal/chunker"
	"github.com/dastbal/codekb/internal/paths"
)

// discoverFiles walks sourceDir (relative to root) and returns every
// candidate file's path relative to root, forward-slash normalized, in
// directory-walk order — spec section 4.3 makes no stronger ordering
// guarantee than that.
func discoverFiles(root, sourceDir string) ([]string, error) {
	base := filepath.Join(root, filepath.FromSlash(sourceDir))

	var files []string
	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}

		name := info.Name()
		if !chunker.IsSourceFile(name) || chunker.IsTestSpec(name) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, paths.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
