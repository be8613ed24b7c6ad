package cache

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// writeManifest writes the header line and one tab-separated line per
// entry, in the given relpath order.
func writeManifest(w io.Writer, entries map[string]*Entry, order []string) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "#%s\n", strings.Join(FileAttributes, "\t")); err != nil {
		return err
	}
	for _, relpath := range order {
		e := entries[relpath]
		values := make([]string, len(FileAttributes))
		for i, attr := range FileAttributes {
			values[i] = e.FieldValue(attr)
		}
		if _, err := fmt.Fprintf(bw, "%s\n", strings.Join(values, "\t")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// readManifest parses a manifest: the first line is the '#'-prefixed
// column header, every following line is zipped against it. Only the
// first line is treated as a header so data rows whose basename starts
// with '#' parse correctly.
func readManifest(r io.Reader) (map[string]*Entry, error) {
	entries := make(map[string]*Entry)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var columns []string
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if !strings.HasPrefix(line, "#") {
				return nil, fmt.Errorf("manifest missing column header")
			}
			columns = strings.Split(strings.TrimPrefix(line, "#"), "\t")
			continue
		}
		if line == "" {
			continue
		}
		values := strings.Split(line, "\t")
		fields := make(map[string]string, len(columns))
		relpath := ""
		for i, col := range columns {
			if i >= len(values) {
				break
			}
			if col == "relpath" {
				relpath = values[i]
			}
			fields[col] = values[i]
		}
		if relpath == "" {
			return nil, fmt.Errorf("manifest line without relpath: %q", line)
		}
		e, err := NewEntryFromFields(relpath, fields)
		if err != nil {
			return nil, err
		}
		entries[relpath] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
