package target

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Filter drops targets whose path matches gitignore-style exclude patterns.
//
// Paths have two components, screen then name, so "htop" excludes every
// target named htop, "scratch/" every target on screen scratch, and "!vim"
// brings a target back after an earlier pattern excluded it.
type Filter struct {
	matcher  gitignore.Matcher
	patterns int
}

// NewFilter parses the given patterns. Blank lines and "#" comments are
// skipped.
func NewFilter(patterns []string) *Filter {
	parsed := parsePatterns(patterns)

	return &Filter{
		matcher:  gitignore.NewMatcher(parsed),
		patterns: len(parsed),
	}
}

// parsePatterns converts exclude lines into Pattern objects.
func parsePatterns(lines []string) []gitignore.Pattern {
	var patterns []gitignore.Pattern

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	return patterns
}

// Len returns the number of active patterns.
func (f *Filter) Len() int {
	return f.patterns
}

// Excluded reports whether t matches the exclude patterns.
func (f *Filter) Excluded(t Target) bool {
	if f.patterns == 0 {
		return false
	}

	return f.matcher.Match(t.Path(), false)
}

// Apply returns the targets that are not excluded, keeping their order.
func (f *Filter) Apply(targets []Target) []Target {
	if f.patterns == 0 {
		return targets
	}

	kept := make([]Target, 0, len(targets))
	for _, t := range targets {
		if !f.Excluded(t) {
			kept = append(kept, t)
		}
	}

	return kept
}
