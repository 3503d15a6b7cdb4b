package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"
)

// DiscoverReferences lists the files in dir matching pattern, sorted.
func DiscoverReferences(dir, pattern string) ([]string, error) {
	glob := filepath.Join(dir, pattern)
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("invalid reference pattern %q: %w", glob, err)
	}
	sort.Strings(paths)
	return paths, nil
}
