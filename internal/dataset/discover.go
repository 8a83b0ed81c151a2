package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands input glob patterns (doublestar syntax, so "**" is
// allowed) into a deduplicated, sorted list of shard paths. A pattern
// containing no metacharacters is returned as-is so a missing literal
// path still surfaces as an open error later instead of silently
// matching nothing.
func Discover(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	paths := make([]string, 0)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if !hasMeta(pattern) {
			if !seen[pattern] {
				seen[pattern] = true
				paths = append(paths, pattern)
			}
			continue
		}

		base, sub := doublestar.SplitPattern(filepath.ToSlash(pattern))
		matches, err := doublestar.Glob(os.DirFS(base), sub)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			full := filepath.Join(base, m)
			if !seen[full] {
				seen[full] = true
				paths = append(paths, full)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadAllDocuments discovers shards matching the patterns, loads each,
// and concatenates them in path order. Row indices are renumbered over
// the merged table so tie-breaks stay stable across shard boundaries.
func ReadAllDocuments(patterns []string) ([]Document, ReadStats, error) {
	paths, err := Discover(patterns)
	if err != nil {
		return nil, ReadStats{}, err
	}
	if len(paths) == 0 {
		return nil, ReadStats{}, fmt.Errorf("no input files match %v", patterns)
	}

	all := make([]Document, 0)
	total := ReadStats{}
	for _, path := range paths {
		docs, stats, err := ReadDocuments(path)
		if err != nil {
			return nil, ReadStats{}, err
		}
		for _, doc := range docs {
			doc.RowIndex = len(all)
			all = append(all, doc)
		}
		total.RowsRead += stats.RowsRead
		total.RowsDroppedMissingKey += stats.RowsDroppedMissingKey
		total.UnrecognizedChangeVals += stats.UnrecognizedChangeVals
	}
	return all, total, nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
