package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update [DIR]",
	Short: "Bring the cache up to date with the directory",
	Long: `Re-walk the directory, refresh tracked entries, pick up new paths
and drop entries for paths that no longer exist, then save the cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

var (
	updateChecksums bool
	updatePathspec  []string
)

func init() {
	updateCmd.Flags().BoolVarP(&updateChecksums, "checksums", "c", false, "Also generate MD5 checksums")
	updateCmd.Flags().StringSliceVarP(&updatePathspec, "pathspec", "p", nil, "Restrict to paths matching these globs (can be repeated)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
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

	stale, err := d.IsStale(ctx)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}
	if !stale && !updateChecksums {
		fmt.Fprintln(os.Stderr, "already up to date")
		return nil
	}

	if updateChecksums {
		if store := attachChecksumStore(d); store != nil {
			defer store.Close()
		}
	}
	if err := d.Update(ctx, updatePathspec, updateChecksums); err != nil {
		return fmt.Errorf("failed to update cache: %w", err)
	}
	if err := d.Save(); err != nil {
		return err
	}

	fmt.Printf("%s: cache updated (%d entries)\n", d.Dir(), d.Len())
	return nil
}
