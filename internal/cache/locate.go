package cache

import (
	"os"
	"path/filepath"
)

// Locate walks upward from startDir (inclusive) through its parents
// looking for a directory whose reserved cache subdirectory contains a
// manifest. It returns the cached root and true, or "" and false when
// the filesystem root is reached without finding one. Callers at any
// depth under a cached root thereby operate on that root, the way
// version-control tooling resolves a repository root.
func Locate(startDir, cacheDirName string) (string, bool) {
	if cacheDirName == "" {
		cacheDirName = DefaultCacheDirName
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		manifest := filepath.Join(dir, cacheDirName, ManifestName)
		if _, err := os.Stat(manifest); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
