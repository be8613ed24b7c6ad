package main

import (
	"fmt"

	"github.com/arqvist/arqvist/internal/tui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var browseCmd = &cobra.Command{
	Use:   "browse [DIR]",
	Short: "Browse cache status interactively",
	Long: `Open an interactive browser over the status result, with
per-attribute diffs for modified entries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

var (
	browseTarget   string
	browsePathspec []string
)

func init() {
	browseCmd.Flags().StringVarP(&browseTarget, "target", "t", "", "Check against TARGET instead of the cache root")
	browseCmd.Flags().StringSliceVarP(&browsePathspec, "pathspec", "p", nil, "Restrict to paths matching these globs (can be repeated)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	dirn, err := resolveDir(args)
	if err != nil {
		return err
	}
	d, err := locateCache(dirn)
	if err != nil {
		return err
	}

	model := tui.NewModel(d, browseTarget, browsePathspec)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
