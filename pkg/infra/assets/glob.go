package assets

import (
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/m-mizutani/goerr/v2"
)

// Resolve expands pattern to the regular files it matches, sorted and without
// duplicates. Directories are skipped. "**" matches across directories.
func Resolve(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve asset pattern", goerr.V("pattern", pattern))
	}

	seen := make(map[string]struct{}, len(matches))
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}

		info, err := os.Stat(m)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to stat asset", goerr.V("path", m))
		}
		if info.IsDir() {
			continue
		}
		files = append(files, m)
	}

	sort.Strings(files)
	return files, nil
}
