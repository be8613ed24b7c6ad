package filter

import (
	"path"
	"strings"
)

// Pathspec is a caller-supplied list of glob patterns restricting which
// paths a status or update call considers. A nil or empty Pathspec
// matches everything. Naming a directory selects its contents as well:
// each pattern also matches as pattern + "/*", which picks up every
// entry the directory walk yields underneath it.
type Pathspec []string

// Match reports whether relpath satisfies the pathspec.
func (ps Pathspec) Match(relpath string) bool {
	if len(ps) == 0 {
		return true
	}
	for _, p := range ps {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if ok, err := path.Match(p, relpath); err == nil && ok {
			return true
		}
		if ok, err := path.Match(p+"/*", relpath); err == nil && ok {
			return true
		}
	}
	return false
}
