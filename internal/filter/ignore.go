// Package filter decides which paths participate in cache operations:
// persistent ignore globs loaded from the cache's ignore file, and
// per-invocation pathspec scoping.
package filter

import (
	"bufio"
	"errors"
	"os"
	"path"
	"strings"
)

// IgnoreList holds an ordered set of shell glob patterns matched
// against paths relative to the cache root. Patterns use shell-style
// wildcards (*, ?, [...]); * does not cross path separators and there
// is no recursive **.
type IgnoreList struct {
	patterns []string
}

// NewIgnoreList creates an IgnoreList from the given patterns.
func NewIgnoreList(patterns ...string) *IgnoreList {
	il := &IgnoreList{}
	for _, p := range patterns {
		il.Add(p)
	}
	return il
}

// Add appends a pattern. A trailing path separator is stripped.
func (il *IgnoreList) Add(pattern string) {
	pattern = strings.TrimSuffix(pattern, "/")
	if pattern == "" {
		return
	}
	il.patterns = append(il.patterns, pattern)
}

// Patterns returns the configured patterns in order.
func (il *IgnoreList) Patterns() []string {
	return append([]string(nil), il.patterns...)
}

// Match reports whether relpath matches any configured pattern.
func (il *IgnoreList) Match(relpath string) bool {
	for _, p := range il.patterns {
		if ok, err := path.Match(p, relpath); err == nil && ok {
			return true
		}
	}
	return false
}

// LoadIgnoreFile reads glob patterns from filen, one per line. Lines
// beginning with '#' and blank lines are skipped. A missing file is
// not an error and yields an empty list.
func LoadIgnoreFile(filen string) (*IgnoreList, error) {
	il := NewIgnoreList()
	f, err := os.Open(filen)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return il, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		il.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return il, nil
}
