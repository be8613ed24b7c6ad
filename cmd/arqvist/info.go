package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arqvist/arqvist/internal/cache"
	"github.com/arqvist/arqvist/internal/metadata"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [DIR]",
	Short: "Summarize a tracked directory",
	Long: `Print counts, total size, file types, compression schemes, owners
and the oldest/newest entries. Uses the persisted cache when one exists,
otherwise walks the directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	dirn, err := resolveDir(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var d *cache.DirCache
	hasCache := false
	if root, ok := cache.Locate(dirn, ""); ok {
		hasCache = true
		d, err = locateCache(root)
		if err != nil {
			return err
		}
	} else {
		d, err = cache.New(dirn, "")
		if err != nil {
			return err
		}
		if err := d.Build(ctx, nil, false); err != nil {
			return fmt.Errorf("failed to scan %s: %w", dirn, err)
		}
	}

	var (
		nfiles, ndirs, nlinks int64
		totalSize             int64
		extensions            = map[string]bool{}
		compression           = map[string]bool{}
		uids                  = map[int]bool{}
		gids                  = map[int]bool{}
		oldest, newest        string
		oldestT, newestT      time.Time
	)
	for _, relpath := range d.Files() {
		e := d.Get(relpath)
		switch e.Type {
		case metadata.KindDir.Code():
			ndirs++
		case metadata.KindSymlink.Code():
			nlinks++
		default:
			nfiles++
			if e.Size != nil {
				totalSize += *e.Size
			}
		}
		if metadata.IsNGSFileType(e.Ext) {
			extensions[strings.ToLower(e.Ext)] = true
		}
		if e.Compression != "" {
			compression[e.Compression] = true
		}
		if e.UID != nil {
			uids[*e.UID] = true
		}
		if e.GID != nil {
			gids[*e.GID] = true
		}
		if e.Timestamp != nil {
			if oldest == "" || e.Timestamp.Before(oldestT) {
				oldest, oldestT = relpath, *e.Timestamp
			}
			if newest == "" || e.Timestamp.After(newestT) {
				newest, newestT = relpath, *e.Timestamp
			}
		}
	}

	fmt.Printf("Dir   : %s\n", d.Dir())
	fmt.Printf("Size  : %s\n", humanize.Bytes(uint64(totalSize)))
	fmt.Printf("Has cache: %s\n", yesNo(hasCache))
	fmt.Printf("#files: %s (%s dirs, %s symlinks)\n",
		humanize.Comma(nfiles), humanize.Comma(ndirs), humanize.Comma(nlinks))
	fmt.Printf("File types: %s\n", joinSorted(extensions))
	fmt.Printf("Compression types: %s\n", joinSorted(compression))
	fmt.Printf("UIDs  : %s\n", joinSortedInts(uids))
	fmt.Printf("GIDs  : %s\n", joinSortedInts(gids))
	if oldest != "" {
		fmt.Printf("Oldest: %s %s\n", oldestT.Format("2006-01-02 15:04:05"), oldest)
		fmt.Printf("Newest: %s %s\n", newestT.Format("2006-01-02 15:04:05"), newest)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinSorted(set map[string]bool) string {
	items := make([]string, 0, len(set))
	for k := range set {
		items = append(items, k)
	}
	sort.Strings(items)
	return strings.Join(items, ",")
}

func joinSortedInts(set map[int]bool) string {
	items := make([]int, 0, len(set))
	for k := range set {
		items = append(items, k)
	}
	sort.Ints(items)
	parts := make([]string, len(items))
	for i, n := range items {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}
