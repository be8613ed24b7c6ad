// Package pathutil provides pure path arithmetic shared by the cache
// and the CLI. Nothing here touches the filesystem.
package pathutil

import "path/filepath"

// Normalize returns a canonical filesystem path string: trailing
// slashes removed, "." and ".." collapsed, relative paths preserved.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

// RebaseRelpaths re-bases a list of root-relative paths onto dirn and
// returns either absolute paths (abspaths true) or paths relative to
// workdir. Entries that cannot be made relative to workdir are
// returned absolute.
func RebaseRelpaths(paths []string, dirn, workdir string, abspaths bool) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		full := filepath.Join(dirn, filepath.FromSlash(p))
		if abspaths {
			out = append(out, full)
			continue
		}
		rel, err := filepath.Rel(workdir, full)
		if err != nil {
			out = append(out, full)
			continue
		}
		out = append(out, rel)
	}
	return out
}
