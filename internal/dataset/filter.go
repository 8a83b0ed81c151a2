package dataset

import (
	"github.com/gobwas/glob"
)

// CountyFilter selects counties by include/exclude glob patterns.
// An empty include list means include everything; exclude wins over
// include when both match.
type CountyFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewCountyFilter compiles the given patterns. Invalid patterns are
// skipped rather than failing the run.
func NewCountyFilter(include []string, exclude []string) *CountyFilter {
	return &CountyFilter{
		include: compilePatterns(include),
		exclude: compilePatterns(exclude),
	}
}

// Keep reports whether documents for county should be scored.
func (f *CountyFilter) Keep(county string) bool {
	if f == nil {
		return true
	}
	for _, g := range f.exclude {
		if g.Match(county) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(county) {
			return true
		}
	}
	return false
}

// Apply returns the documents whose county passes the filter.
func (f *CountyFilter) Apply(docs []Document) []Document {
	if f == nil || (len(f.include) == 0 && len(f.exclude) == 0) {
		return docs
	}
	kept := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if f.Keep(doc.County) {
			kept = append(kept, doc)
		}
	}
	return kept
}

func compilePatterns(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		globs = append(globs, g)
	}
	return globs
}
