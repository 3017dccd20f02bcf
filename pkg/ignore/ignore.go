// Package ignore provides gitignore-based file filtering using go-git
package ignore

import (
	"errors"
	"os"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher provides gitignore-based file filtering
type Matcher struct {
	matcher gitignore.Matcher
	count   int
}

// NewMatcher creates a matcher for a content tree with layered ignore files:
// 1. .gitignore files anywhere in the tree (foundation)
// 2. the tool's ignore file at the tree root (overrides), when ignoreFile is non-empty
func NewMatcher(fs billy.Filesystem, ignoreFile string) (*Matcher, error) {
	allPatterns := []gitignore.Pattern{gitignore.ParsePattern(".git", nil)}

	gitPatterns, err := gitignore.ReadPatterns(fs, nil)
	if err != nil {
		return nil, err
	}
	allPatterns = append(allPatterns, gitPatterns...)

	if ignoreFile != "" {
		lines, err := readIgnoreFile(fs, ignoreFile)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			allPatterns = append(allPatterns, gitignore.ParsePattern(line, nil))
		}
	}

	return &Matcher{
		matcher: gitignore.NewMatcher(allPatterns),
		count:   len(allPatterns),
	}, nil
}

// readIgnoreFile reads patterns from a text file; a missing file yields no patterns.
func readIgnoreFile(fs billy.Filesystem, name string) ([]string, error) {
	content, err := util.ReadFile(fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// Patterns returns how many patterns are active, including the built-in .git rule.
func (m *Matcher) Patterns() int {
	return m.count
}

// IsIgnored checks if a slash-separated path relative to the tree root should be skipped.
func (m *Matcher) IsIgnored(path string, isDir bool) bool {
	if m == nil {
		return false
	}
	parts := splitPath(path)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	if path == "" || path == "." {
		return []string{}
	}
	path = strings.TrimPrefix(path, "/")
	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
