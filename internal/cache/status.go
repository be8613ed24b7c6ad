package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/arqvist/arqvist/internal/filter"
	"github.com/arqvist/arqvist/internal/metadata"
)

// DefaultStatusAttributes is the attribute set Status compares when
// the caller does not choose one.
var DefaultStatusAttributes = []string{"type", "size"}

// Status is the result of reconciling the cache against a live
// directory tree. Each list holds relpaths in sorted order. The lists
// are disjoint except that a path may be both modified and unreadable.
type Status struct {
	Deleted    []string
	Modified   []string
	Untracked  []string
	Unreadable []string
}

// IsClean reports whether the live tree matches the cache. Unreadable
// paths alone do not make a cache stale.
func (s *Status) IsClean() bool {
	return len(s.Deleted) == 0 && len(s.Modified) == 0 && len(s.Untracked) == 0
}

// Status reconciles the cache against the live tree rooted at dirn
// (the cache root when empty). It makes two passes: a walk over the
// live tree classifying visited paths as untracked, modified or
// unreadable, then a sweep over the tracked entries to find paths the
// walk could never visit because they no longer exist. The second pass
// is the only way to detect deletions. Status never mutates the cache.
func (c *DirCache) Status(ctx context.Context, dirn string, pathspec filter.Pathspec, attributes []string) (*Status, error) {
	if len(attributes) == 0 {
		attributes = DefaultStatusAttributes
	}
	if dirn == "" {
		dirn = c.dirn
	}
	dirn, err := filepath.Abs(dirn)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dirn, err)
	}

	visited := make(map[string]bool)
	modified := make(map[string]bool)
	unreadable := make(map[string]bool)
	var untracked []string

	// Pass 1: walk the live tree.
	walkErr := filepath.WalkDir(dirn, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dirn {
				return fmt.Errorf("failed to walk %s: %w", p, err)
			}
			relpath := c.relpath(dirn, p)
			if !c.ignore.Match(relpath) && pathspec.Match(relpath) {
				unreadable[relpath] = true
			}
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if p == dirn {
			return nil
		}
		if d.IsDir() && d.Name() == c.cacheDirName {
			return fs.SkipDir
		}
		relpath := c.relpath(dirn, p)
		if c.ignore.Match(relpath) || !pathspec.Match(relpath) {
			return nil
		}
		visited[relpath] = true

		snap, err := metadata.NewSnapshot(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if !snap.IsReadable() {
			unreadable[relpath] = true
		}
		e := c.files[relpath]
		if e == nil {
			untracked = append(untracked, relpath)
			return nil
		}
		diffs, err := e.Compare(p, attributes)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if len(diffs) > 0 {
			modified[relpath] = true
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// Pass 2: sweep the tracked entries for paths the walk never saw.
	var deleted []string
	for _, relpath := range c.Files() {
		if c.ignore.Match(relpath) || !pathspec.Match(relpath) {
			continue
		}
		if visited[relpath] {
			continue
		}
		full := c.fullPath(dirn, relpath)
		if _, err := os.Lstat(full); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				deleted = append(deleted, relpath)
			} else {
				unreadable[relpath] = true
			}
			continue
		}
		// Exists but was not walked (e.g. under an unreadable parent).
		snap, err := metadata.NewSnapshot(full)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				deleted = append(deleted, relpath)
				continue
			}
			return nil, err
		}
		if !snap.IsReadable() {
			unreadable[relpath] = true
		}
		if !modified[relpath] {
			diffs, err := c.files[relpath].Compare(full, attributes)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					deleted = append(deleted, relpath)
					continue
				}
				return nil, err
			}
			if len(diffs) > 0 {
				modified[relpath] = true
			}
		}
	}

	result := &Status{
		Deleted:    deleted,
		Modified:   keys(modified),
		Untracked:  untracked,
		Unreadable: keys(unreadable),
	}
	sort.Strings(result.Deleted)
	sort.Strings(result.Untracked)
	return result, nil
}

// IsStale reports whether a default-attribute Status finds any
// deleted, modified or untracked paths.
func (c *DirCache) IsStale(ctx context.Context) (bool, error) {
	status, err := c.Status(ctx, "", nil, nil)
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
