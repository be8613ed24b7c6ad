package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [DIR]",
	Short: "Report changes compared to the cache",
	Long: `Reconcile the live directory tree against the persisted cache and
list deleted, modified, untracked and unreadable paths.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

var (
	statusTarget   string
	statusPathspec []string
)

func init() {
	statusCmd.Flags().StringVarP(&statusTarget, "target", "t", "", "Check against TARGET instead of the cache root")
	statusCmd.Flags().StringSliceVarP(&statusPathspec, "pathspec", "p", nil, "Restrict to paths matching these globs (can be repeated)")
}

var (
	deletedLineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	modifiedLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	untrackedLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	unreadableLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

func runStatus(cmd *cobra.Command, args []string) error {
	dirn, err := resolveDir(args)
	if err != nil {
		return err
	}
	d, err := locateCache(dirn)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(d.Dir())
	if statusTarget != "" {
		fmt.Printf("\nComparing with %s\n", statusTarget)
	}

	status, err := d.Status(ctx, statusTarget, statusPathspec, nil)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	if status.IsClean() {
		fmt.Println()
		fmt.Println("no differences compared to cache")
	}
	if len(status.Deleted) > 0 || len(status.Modified) > 0 {
		fmt.Println()
		fmt.Println("Changes to tracked files:")
		for _, f := range status.Deleted {
			fmt.Println(deletedLineStyle.Render(fmt.Sprintf("\tdeleted:    %s", f)))
		}
		for _, f := range status.Modified {
			fmt.Println(modifiedLineStyle.Render(fmt.Sprintf("\tmodified:   %s", f)))
		}
	}
	if len(status.Untracked) > 0 {
		fmt.Println()
		fmt.Println("Untracked files:")
		for _, f := range status.Untracked {
			fmt.Println(untrackedLineStyle.Render(fmt.Sprintf("\t%s", f)))
		}
	}
	if len(status.Unreadable) > 0 {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Unreadable files:")
		for _, f := range status.Unreadable {
			fmt.Fprintln(os.Stderr, unreadableLineStyle.Render(fmt.Sprintf("\t%s", f)))
		}
	}
	return nil
}
