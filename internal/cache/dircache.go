package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/arqvist/arqvist/internal/filter"
	"github.com/arqvist/arqvist/internal/metadata"
	"github.com/arqvist/arqvist/internal/pathutil"
)

const (
	// DefaultCacheDirName is the reserved subdirectory holding the
	// persisted cache. It is excluded from every walk structurally,
	// regardless of ignore patterns.
	DefaultCacheDirName = ".arqvist"

	// ManifestName is the manifest file inside the cache directory.
	ManifestName = "files"

	// IgnoreFileName holds the persistent ignore globs.
	IgnoreFileName = "ignore"

	manifestMode = 0644
)

// ChecksumStore memoizes content checksums across runs. A stored value
// is only reused while the file's size and mtime are unchanged.
type ChecksumStore interface {
	Lookup(relpath string, size int64, mtime time.Time) (md5sum, uncompressed string, ok bool)
	Store(relpath string, size int64, mtime time.Time, md5sum, uncompressed string) error
}

// DirCache owns the mapping of relpath to cache entry for one root
// directory and orchestrates build, load, save, update and status.
// Instances are not safe for concurrent use.
type DirCache struct {
	dirn         string
	cacheDirName string
	files        map[string]*Entry
	ignore       *filter.IgnoreList
	checksums    ChecksumStore
}

// New creates a cache rooted at dirn. The reserved cache subdirectory
// name defaults to DefaultCacheDirName when cacheDirName is empty; it
// is per-instance so tests and embedders never share ambient state.
func New(dirn, cacheDirName string) (*DirCache, error) {
	abs, err := filepath.Abs(dirn)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache root: %w", err)
	}
	if cacheDirName == "" {
		cacheDirName = DefaultCacheDirName
	}
	return &DirCache{
		dirn:         pathutil.Normalize(abs),
		cacheDirName: cacheDirName,
		files:        make(map[string]*Entry),
		ignore:       filter.NewIgnoreList(),
	}, nil
}

// Dir returns the absolute cache root.
func (c *DirCache) Dir() string { return c.dirn }

// CacheDir returns the absolute path of the reserved cache
// subdirectory.
func (c *DirCache) CacheDir() string {
	return filepath.Join(c.dirn, c.cacheDirName)
}

func (c *DirCache) manifestPath() string {
	return filepath.Join(c.CacheDir(), ManifestName)
}

func (c *DirCache) ignorePath() string {
	return filepath.Join(c.CacheDir(), IgnoreFileName)
}

// Exists reports whether a manifest has been persisted for this root.
func (c *DirCache) Exists() bool {
	_, err := os.Stat(c.manifestPath())
	return err == nil
}

// Len returns the number of tracked paths.
func (c *DirCache) Len() int { return len(c.files) }

// Files returns the tracked relpaths in sorted order.
func (c *DirCache) Files() []string {
	files := make([]string, 0, len(c.files))
	for relpath := range c.files {
		files = append(files, relpath)
	}
	sort.Strings(files)
	return files
}

// Get returns the entry for relpath, or nil if the path is untracked.
func (c *DirCache) Get(relpath string) *Entry {
	return c.files[relpath]
}

// Ignore returns the active ignore list.
func (c *DirCache) Ignore() *filter.IgnoreList { return c.ignore }

// SetChecksumStore installs a checksum memo store consulted during
// checksum-bearing builds. A nil store computes every checksum fresh.
func (c *DirCache) SetChecksumStore(store ChecksumStore) {
	c.checksums = store
}

// Load reads the ignore file and the persisted manifest. It returns
// false when no manifest exists, which is the normal "cache not yet
// initialised" signal rather than an error.
func (c *DirCache) Load() (bool, error) {
	ignore, err := filter.LoadIgnoreFile(c.ignorePath())
	if err != nil {
		return false, fmt.Errorf("failed to read ignore file: %w", err)
	}
	c.ignore = ignore

	f, err := os.Open(c.manifestPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	entries, err := readManifest(f)
	if err != nil {
		return false, fmt.Errorf("failed to parse manifest: %w", err)
	}
	c.files = entries
	return true, nil
}

// Build walks the root directory and creates or refreshes an entry for
// every visited path passing the ignore and pathspec filters. It never
// removes entries for paths it does not visit; Update handles that.
// When includeChecksums is set, MD5s are computed (or recalled from the
// checksum store) for readable regular files.
func (c *DirCache) Build(ctx context.Context, pathspec filter.Pathspec, includeChecksums bool) error {
	return filepath.WalkDir(c.dirn, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == c.dirn {
				return fmt.Errorf("failed to walk %s: %w", p, err)
			}
			// Unreadable subtree; status reports it.
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if p == c.dirn {
			return nil
		}
		if d.IsDir() && d.Name() == c.cacheDirName {
			return fs.SkipDir
		}
		relpath := c.relpath(c.dirn, p)
		if c.ignore.Match(relpath) || !pathspec.Match(relpath) {
			return nil
		}
		snap, err := metadata.NewSnapshot(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// Vanished between the walk and the stat.
				return nil
			}
			return err
		}
		if includeChecksums && snap.Kind == metadata.KindFile && snap.IsReadable() {
			if err := c.ensureChecksums(relpath, snap); err != nil {
				return err
			}
		}
		e := c.files[relpath]
		if e == nil {
			e = NewEntry(relpath)
			c.files[relpath] = e
		}
		e.ApplySnapshot(snap)
		return nil
	})
}

// Update performs a Build and then reconciles deletions: every tracked
// relpath that is now ignored or no longer present on disk is dropped
// from the cache. Build alone cannot detect deletions since a walk
// only observes what currently exists.
func (c *DirCache) Update(ctx context.Context, pathspec filter.Pathspec, includeChecksums bool) error {
	if err := c.Build(ctx, pathspec, includeChecksums); err != nil {
		return err
	}
	for _, relpath := range c.Files() {
		if c.ignore.Match(relpath) {
			delete(c.files, relpath)
			continue
		}
		if _, err := os.Lstat(c.fullPath(c.dirn, relpath)); errors.Is(err, os.ErrNotExist) {
			delete(c.files, relpath)
		}
	}
	return nil
}

func (c *DirCache) ensureChecksums(relpath string, snap *metadata.Snapshot) error {
	if c.checksums != nil {
		if md5sum, uncompressed, ok := c.checksums.Lookup(relpath, snap.Size, snap.Timestamp); ok {
			snap.SetChecksums(md5sum, uncompressed)
			return nil
		}
	}
	if err := snap.EnsureChecksums(); err != nil {
		return err
	}
	if c.checksums != nil {
		if err := c.checksums.Store(relpath, snap.Size, snap.Timestamp, snap.MD5(), snap.UncompressedMD5()); err != nil {
			return fmt.Errorf("failed to store checksum for %s: %w", relpath, err)
		}
	}
	return nil
}

// Save persists the manifest atomically: write to a temp file inside
// the cache directory, keep the previous manifest as a ".bak" copy,
// then rename the temp file over the canonical path. The result is
// world-readable, owner-writable.
func (c *DirCache) Save() error {
	cachedir := c.CacheDir()
	if err := os.MkdirAll(cachedir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(cachedir, "."+ManifestName+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	if err := writeManifest(tmp, c.files, c.Files()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	if err := os.Chmod(tmpName, manifestMode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set manifest mode: %w", err)
	}

	manifest := c.manifestPath()
	if _, err := os.Stat(manifest); err == nil {
		if err := copyFile(manifest, manifest+".bak", manifestMode); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("failed to back up manifest: %w", err)
		}
	}
	if err := os.Rename(tmpName, manifest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename manifest: %w", err)
	}
	return nil
}

// WriteIgnoreFile persists the active ignore patterns, one per line,
// creating the cache directory if needed.
func (c *DirCache) WriteIgnoreFile() error {
	if err := os.MkdirAll(c.CacheDir(), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	var buf []byte
	for _, p := range c.ignore.Patterns() {
		buf = append(buf, p...)
		buf = append(buf, '\n')
	}
	if err := os.WriteFile(c.ignorePath(), buf, manifestMode); err != nil {
		return fmt.Errorf("failed to write ignore file: %w", err)
	}
	return nil
}

// NormaliseRelpaths re-bases tracked-style relpaths onto dirn (the
// cache root when empty) and returns absolute paths or paths relative
// to workdir. Pure path arithmetic, no filesystem access.
func (c *DirCache) NormaliseRelpaths(paths []string, dirn, workdir string, abspaths bool) []string {
	if dirn == "" {
		dirn = c.dirn
	}
	return pathutil.RebaseRelpaths(paths, dirn, workdir, abspaths)
}

func (c *DirCache) relpath(dirn, p string) string {
	rel, err := filepath.Rel(dirn, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func (c *DirCache) fullPath(dirn, relpath string) string {
	return filepath.Join(dirn, filepath.FromSlash(relpath))
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
