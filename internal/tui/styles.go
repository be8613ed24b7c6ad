package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	// Colors
	colorPrimary   = lipgloss.Color("39")  // Blue
	colorSecondary = lipgloss.Color("245") // Gray
	colorDeleted   = lipgloss.Color("203") // Red
	colorModified  = lipgloss.Color("214") // Orange
	colorUntracked = lipgloss.Color("76")  // Green
	colorWarning   = lipgloss.Color("212") // Pink
	colorMuted     = lipgloss.Color("240") // Dark gray

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	pathStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(colorPrimary)

	deletedStyle    = lipgloss.NewStyle().Foreground(colorDeleted)
	modifiedStyle   = lipgloss.NewStyle().Foreground(colorModified)
	untrackedStyle  = lipgloss.NewStyle().Foreground(colorUntracked)
	unreadableStyle = lipgloss.NewStyle().Foreground(colorWarning)

	detailStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	filterStyle = lipgloss.NewStyle().
			Foreground(colorModified)
)

func sectionItemStyle(s Section) lipgloss.Style {
	switch s {
	case SectionDeleted:
		return deletedStyle
	case SectionModified:
		return modifiedStyle
	case SectionUntracked:
		return untrackedStyle
	default:
		return unreadableStyle
	}
}

// FormatCount formats a count for display.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
