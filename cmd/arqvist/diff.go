package main

import (
	"fmt"

	"github.com/arqvist/arqvist/internal/cache"
	"github.com/arqvist/arqvist/internal/metadata"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff [DIR]",
	Short: "Show which attributes changed for modified paths",
	Long: `For every path reported as modified, list each differing attribute
with its live and cached values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiff,
}

var (
	diffTarget   string
	diffPathspec []string
)

// diffAttributes is the attribute set diff inspects, wider than the
// type/size pair status compares by default.
var diffAttributes = []string{"type", "size", "timestamp", "mode", "uid", "gid"}

func init() {
	diffCmd.Flags().StringVarP(&diffTarget, "target", "t", "", "Check against TARGET instead of the cache root")
	diffCmd.Flags().StringSliceVarP(&diffPathspec, "pathspec", "p", nil, "Restrict to paths matching these globs (can be repeated)")
}

func runDiff(cmd *cobra.Command, args []string) error {
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

	target := diffTarget
	if target == "" {
		target = d.Dir()
	}

	status, err := d.Status(ctx, target, diffPathspec, diffAttributes)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	for _, f := range status.Modified {
		e := d.Get(f)
		full := d.NormaliseRelpaths([]string{f}, target, "", true)[0]
		changed, err := e.Compare(full, diffAttributes)
		if err != nil {
			return err
		}
		live, err := metadata.NewSnapshot(full)
		if err != nil {
			return err
		}
		fmt.Printf("%s:\n", f)
		for _, attr := range changed {
			fmt.Printf("\t%s: %s != %s\n", attr, liveFieldValue(live, attr), e.FieldValue(attr))
		}
	}
	return nil
}

func liveFieldValue(s *metadata.Snapshot, attr string) string {
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
	case "target":
		return s.Target
	}
	return ""
}
