package main

import (
	"fmt"
	"os"

	"github.com/arqvist/arqvist/internal/cache"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Create a cache for a directory",
	Long: `Walk the directory tree and persist a metadata snapshot of every
entry into the reserved cache subdirectory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initChecksums bool
	initIgnore    []string
)

func init() {
	initCmd.Flags().BoolVarP(&initChecksums, "checksums", "c", false, "Also generate MD5 checksums")
	initCmd.Flags().StringSliceVar(&initIgnore, "ignore", nil, "Glob patterns to exclude from tracking (can be repeated)")
}

func runInit(cmd *cobra.Command, args []string) error {
	dirn, err := resolveDir(args)
	if err != nil {
		return err
	}
	d, err := cache.New(dirn, "")
	if err != nil {
		return err
	}
	if d.Exists() {
		return fmt.Errorf("%s: already initialised", dirn)
	}

	for _, p := range initIgnore {
		d.Ignore().Add(p)
	}
	if len(initIgnore) > 0 {
		if err := d.WriteIgnoreFile(); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	if initChecksums {
		if err := os.MkdirAll(d.CacheDir(), 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
		if store := attachChecksumStore(d); store != nil {
			defer store.Close()
		}
	}
	if err := d.Build(ctx, nil, initChecksums); err != nil {
		return fmt.Errorf("failed to build cache: %w", err)
	}
	if err := d.Save(); err != nil {
		return err
	}

	fmt.Printf("%s: cache initialised (%d entries)\n", dirn, d.Len())
	return nil
}
