package index

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// UsageFilter drops usage files that re-declare or re-export action types
// instead of consuming them (action-creator modules, tests, type modules).
type UsageFilter struct {
	patterns []compiledPattern
}

// NewUsageFilter compiles exclusion globs. Patterns are matched against
// "/"-prefixed ids, so a leading "**/" also matches files at the workspace
// root and any other pattern is rooted.
func NewUsageFilter(patterns []string) (*UsageFilter, error) {
	f := &UsageFilter{}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid usage exclusion %q", pattern)
		}
		compiled := pattern
		if !strings.HasPrefix(compiled, "**") {
			compiled = anchor(compiled)
		}
		g, err := glob.Compile(compiled, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid usage exclusion %q: %w", pattern, err)
		}
		f.patterns = append(f.patterns, compiledPattern{pattern: pattern, glob: g})
	}
	return f, nil
}

// Excluded reports whether fileID matches any exclusion pattern.
func (f *UsageFilter) Excluded(fileID string) bool {
	if f == nil {
		return false
	}
	path := anchor(filepath.ToSlash(fileID))
	for _, cp := range f.patterns {
		if cp.glob.Match(path) {
			return true
		}
	}
	return false
}

// Split partitions ids into kept and excluded, preserving order.
func (f *UsageFilter) Split(ids []string) (kept, excluded []string) {
	kept = make([]string, 0, len(ids))
	for _, id := range ids {
		if f.Excluded(id) {
			excluded = append(excluded, id)
			continue
		}
		kept = append(kept, id)
	}
	return kept, excluded
}

// anchor prefixes a single slash.
func anchor(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
