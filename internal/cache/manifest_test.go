package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestManifestRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 600000000, time.UTC)
	size := int64(2048)
	uid, gid := 1000, 100

	file := NewEntry("fastqs/R1.fastq.gz")
	file.Type = "f"
	file.Size = &size
	file.Timestamp = &ts
	file.Mode = "0644"
	file.UID = &uid
	file.GID = &gid
	file.MD5 = "0123456789abcdef0123456789abcdef"
	file.UncompressedMD5 = "fedcba9876543210fedcba9876543210"

	link := NewEntry("current")
	link.Type = "s"
	link.Target = "fastqs"

	sparse := NewEntry("unseen.txt")

	entries := map[string]*Entry{
		file.Relpath:   file,
		link.Relpath:   link,
		sparse.Relpath: sparse,
	}
	order := []string{"current", "fastqs/R1.fastq.gz", "unseen.txt"}

	var buf bytes.Buffer
	if err := writeManifest(&buf, entries, order); err != nil {
		t.Fatalf("writeManifest: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows", len(lines))
	}
	wantHeader := "#" + strings.Join(FileAttributes, "\t")
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}

	got, err := readManifest(&buf)
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}

	f := got["fastqs/R1.fastq.gz"]
	if f == nil {
		t.Fatalf("file entry missing")
	}
	if f.Type != "f" || f.Size == nil || *f.Size != 2048 {
		t.Errorf("file entry fields lost: type=%q size=%v", f.Type, f.Size)
	}
	if f.Timestamp == nil || !f.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", f.Timestamp, ts)
	}
	if f.MD5 != file.MD5 || f.UncompressedMD5 != file.UncompressedMD5 {
		t.Errorf("checksums lost")
	}

	l := got["current"]
	if l == nil || l.Target != "fastqs" {
		t.Errorf("symlink target lost: %+v", l)
	}

	s := got["unseen.txt"]
	if s == nil || s.Size != nil || s.Type != "" {
		t.Errorf("unset fields should survive as None: %+v", s)
	}
}

func TestReadManifestHashBasename(t *testing.T) {
	// A tracked file whose name starts with '#' must not be mistaken
	// for a header line; only the first line is one.
	e := NewEntry("#test")
	e.Type = "f"
	entries := map[string]*Entry{"#test": e}

	var buf bytes.Buffer
	if err := writeManifest(&buf, entries, []string{"#test"}); err != nil {
		t.Fatalf("writeManifest: %v", err)
	}
	got, err := readManifest(&buf)
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if got["#test"] == nil {
		t.Errorf("entry for %q was dropped", "#test")
	}
}

func TestReadManifestMissingHeader(t *testing.T) {
	r := strings.NewReader("no-header\tf\n")
	if _, err := readManifest(r); err == nil {
		t.Errorf("expected error for manifest without header")
	}
}
