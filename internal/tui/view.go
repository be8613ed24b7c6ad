package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	if m.status == nil {
		return "Loading..."
	}

	var b strings.Builder
	headerLines := 0

	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\n")
		headerLines++
	}

	writeLine(titleStyle.Render("arqvist - Cache Status Browser"))

	target := m.target
	if target == "" {
		target = m.cache.Dir()
	}
	writeLine(pathStyle.Render(fmt.Sprintf("Cache: %s", m.cache.Dir())))
	if target != m.cache.Dir() {
		writeLine(pathStyle.Render(fmt.Sprintf("Target: %s", target)))
	}

	counts := fmt.Sprintf("%s deleted | %s modified | %s untracked | %s unreadable",
		FormatCount(int64(len(m.status.Deleted))),
		FormatCount(int64(len(m.status.Modified))),
		FormatCount(int64(len(m.status.Untracked))),
		FormatCount(int64(len(m.status.Unreadable))),
	)
	writeLine(statusStyle.Render(counts))

	if m.filterActive {
		writeLine(filterStyle.Render(fmt.Sprintf("Filter: %s_", m.filter)))
	} else if m.filter != "" {
		writeLine(filterStyle.Render(fmt.Sprintf("Filter: %s", m.filter)))
	}

	if len(m.rows) == 0 {
		writeLine("")
		if m.status.IsClean() {
			writeLine(untrackedStyle.Render("no differences compared to cache"))
		} else {
			writeLine(statusStyle.Render("no entries match the filter"))
		}
	}

	// Visible window around the cursor.
	footerLines := 2 + len(m.detail)
	visibleRows := m.height - headerLines - footerLines - 4
	if visibleRows < 1 {
		visibleRows = 10
	}
	start := 0
	if m.cursor >= visibleRows {
		start = m.cursor - visibleRows + 1
	}
	end := start + visibleRows
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var lastSection Section = -1
	for i := start; i < end; i++ {
		r := m.rows[i]
		if r.section != lastSection {
			b.WriteString(sectionStyle.Render(strings.ToUpper(r.section.String())))
			b.WriteString("\n")
			lastSection = r.section
		}
		line := fmt.Sprintf("  %s", r.relpath)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(sectionItemStyle(r.section).Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.detail) > 0 && m.cursor < len(m.rows) {
		detail := fmt.Sprintf("%s\n  %s", m.rows[m.cursor].relpath,
			strings.Join(m.detail, "\n  "))
		b.WriteString(detailStyle.Render(detail))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("j/k move | enter diff | / filter | r refresh | q quit"))
	return b.String()
}
