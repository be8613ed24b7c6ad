package tui

import (
	"context"
	"fmt"

	"github.com/arqvist/arqvist/internal/cache"
	"github.com/arqvist/arqvist/internal/filter"
	"github.com/arqvist/arqvist/internal/metadata"

	tea "github.com/charmbracelet/bubbletea"
)

// Section identifies which status list a row belongs to.
type Section int

const (
	SectionDeleted Section = iota
	SectionModified
	SectionUntracked
	SectionUnreadable
)

func (s Section) String() string {
	switch s {
	case SectionDeleted:
		return "deleted"
	case SectionModified:
		return "modified"
	case SectionUntracked:
		return "untracked"
	default:
		return "unreadable"
	}
}

type row struct {
	section Section
	relpath string
}

// Model holds the status browser state.
type Model struct {
	cache    *cache.DirCache
	target   string
	pathspec filter.Pathspec

	status  *cache.Status
	allRows []row
	rows    []row
	cursor  int
	width   int
	height  int

	filter       string
	filterActive bool
	detail       []string
	err          error
}

// NewModel creates a status browser for the given cache. target is the
// directory compared against the cache (the cache root when empty).
func NewModel(c *cache.DirCache, target string, pathspec filter.Pathspec) *Model {
	return &Model{
		cache:    c,
		target:   target,
		pathspec: pathspec,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadStatus
}

type statusLoadedMsg struct {
	status *cache.Status
	err    error
}

func (m *Model) loadStatus() tea.Msg {
	status, err := m.cache.Status(context.Background(), m.target, m.pathspec, cache.DefaultStatusAttributes)
	return statusLoadedMsg{status: status, err: err}
}

type detailLoadedMsg struct {
	lines []string
	err   error
}

// loadDetail builds the per-attribute diff for the selected modified
// entry.
func (m *Model) loadDetail() tea.Msg {
	if m.cursor >= len(m.rows) {
		return nil
	}
	r := m.rows[m.cursor]
	if r.section != SectionModified {
		return nil
	}
	e := m.cache.Get(r.relpath)
	if e == nil {
		return nil
	}
	dirn := m.target
	if dirn == "" {
		dirn = m.cache.Dir()
	}
	full := m.cache.NormaliseRelpaths([]string{r.relpath}, dirn, "", true)[0]
	attrs := []string{"type", "size", "timestamp", "mode", "uid", "gid"}
	changed, err := e.Compare(full, attrs)
	if err != nil {
		return detailLoadedMsg{err: err}
	}
	live, err := metadata.NewSnapshot(full)
	if err != nil {
		return detailLoadedMsg{err: err}
	}
	lines := make([]string, 0, len(changed))
	for _, attr := range changed {
		lines = append(lines, fmt.Sprintf("%s: %s != %s (cached)",
			attr, liveValue(live, attr), e.FieldValue(attr)))
	}
	if len(lines) == 0 {
		lines = []string{"no attribute differences"}
	}
	return detailLoadedMsg{lines: lines}
}

func liveValue(s *metadata.Snapshot, attr string) string {
	switch attr {
	case "type":
		return s.Kind.Code()
	case "size":
		return fmt.Sprintf("%d", s.Size)
	case "timestamp":
		return s.Timestamp.Format(cache.TimestampLayout)
	case "mode":
		return fmt.Sprintf("%04o", uint32(s.Mode))
	case "uid":
		return fmt.Sprintf("%d", s.UID)
	case "gid":
		return fmt.Sprintf("%d", s.GID)
	}
	return ""
}

func (m *Model) setStatus(status *cache.Status) {
	m.status = status
	m.allRows = m.allRows[:0]
	for _, p := range status.Deleted {
		m.allRows = append(m.allRows, row{SectionDeleted, p})
	}
	for _, p := range status.Modified {
		m.allRows = append(m.allRows, row{SectionModified, p})
	}
	for _, p := range status.Untracked {
		m.allRows = append(m.allRows, row{SectionUntracked, p})
	}
	for _, p := range status.Unreadable {
		m.allRows = append(m.allRows, row{SectionUnreadable, p})
	}
	m.applyFilter()
}

func (m *Model) applyFilter() {
	if m.filter == "" {
		m.rows = append(m.rows[:0], m.allRows...)
	} else {
		m.rows = m.rows[:0]
		for _, r := range m.allRows {
			if containsFold(r.relpath, m.filter) {
				m.rows = append(m.rows, r)
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = 0
	}
}
