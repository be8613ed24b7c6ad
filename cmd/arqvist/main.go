package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arqvist",
	Short: "Track metadata changes in data directories",
	Long: `arqvist snapshots file metadata under a directory into a local
cache and reports deleted, modified and untracked paths on later runs,
like a version-control status restricted to metadata.`,
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(browseCmd)
}
