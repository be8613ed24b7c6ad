package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arqvist/arqvist/internal/metadata"
)

func TestNewEntry(t *testing.T) {
	e := NewEntry("fastqs/sample.fastq.gz")
	if e.Basename != "sample.fastq.gz" {
		t.Errorf("basename = %q", e.Basename)
	}
	if e.Ext != "fastq" || e.Compression != "gz" {
		t.Errorf("ext/compression = %q/%q, want fastq/gz", e.Ext, e.Compression)
	}
	if e.Type != "" || e.Size != nil || e.Timestamp != nil {
		t.Errorf("observed attributes should start unset")
	}
	if got := e.FieldValue("size"); got != "None" {
		t.Errorf("FieldValue(size) = %q, want None", got)
	}
	if got := e.FieldValue("ext"); got != "fastq" {
		t.Errorf("FieldValue(ext) = %q, want fastq", got)
	}
}

func TestNewEntryFromFields(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	e, err := NewEntryFromFields("data/reads.fastq", map[string]string{
		"type":      "f",
		"size":      "4096",
		"timestamp": ts.Format(TimestampLayout),
		"mode":      "0644",
		"uid":       "1000",
		"gid":       "None",
		"md5":       "d41d8cd98f00b204e9800998ecf8427e",
		"target":    "None",
	})
	if err != nil {
		t.Fatalf("NewEntryFromFields: %v", err)
	}
	if e.Type != "f" {
		t.Errorf("type = %q", e.Type)
	}
	if e.Size == nil || *e.Size != 4096 {
		t.Errorf("size = %v, want 4096", e.Size)
	}
	if e.Timestamp == nil || !e.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", e.Timestamp, ts)
	}
	if e.UID == nil || *e.UID != 1000 {
		t.Errorf("uid = %v, want 1000", e.UID)
	}
	if e.GID != nil {
		t.Errorf("gid should stay unset for None")
	}
	if e.Target != "" {
		t.Errorf("target should stay unset for None")
	}
}

func TestNewEntryFromFieldsUnknownField(t *testing.T) {
	_, err := NewEntryFromFields("x", map[string]string{"owner": "alice"})
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestNewEntryFromFieldsBadValues(t *testing.T) {
	if _, err := NewEntryFromFields("x", map[string]string{"size": "lots"}); err == nil {
		t.Errorf("expected error for unparsable size")
	}
	if _, err := NewEntryFromFields("x", map[string]string{"type": "q"}); err == nil {
		t.Errorf("expected error for unknown type code")
	}
}

func TestEntryIsStale(t *testing.T) {
	ts := time.Now()
	size := int64(512)

	e := NewEntry("data.txt")
	e.Type = metadata.KindFile.Code()
	e.Size = &size
	e.Timestamp = &ts

	if e.IsStale(512, ts) {
		t.Errorf("matching size and timestamp should not be stale")
	}
	if !e.IsStale(513, ts) {
		t.Errorf("size change should be stale")
	}
	if !e.IsStale(512, ts.Add(time.Second)) {
		t.Errorf("timestamp change should be stale")
	}

	d := NewEntry("subdir")
	d.Type = metadata.KindDir.Code()
	d.Size = &size
	d.Timestamp = &ts
	if d.IsStale(4096, ts) {
		t.Errorf("directory size is not compared")
	}
	if !d.IsStale(4096, ts.Add(time.Second)) {
		t.Errorf("directory timestamp change should be stale")
	}
}

func TestEntryCompare(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("first version"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	snap, err := metadata.NewSnapshot(path)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	e := NewEntry("notes.txt")
	e.ApplySnapshot(snap)

	diffs, err := e.Compare(path, []string{"type", "size", "timestamp", "mode"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(diffs) != 0 {
		t.Errorf("unchanged file should compare equal, got %v", diffs)
	}

	if err := os.WriteFile(path, []byte("a longer second version"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	diffs, err = e.Compare(path, []string{"size"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(diffs) != 1 || diffs[0] != "size" {
		t.Errorf("diffs = %v, want [size]", diffs)
	}
}

func TestEntryCompareSkipsUnsetAttributes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Nothing has been observed for this entry, so nothing can differ.
	e := NewEntry("plain")
	diffs, err := e.Compare(path, []string{"type", "size", "timestamp", "md5"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(diffs) != 0 {
		t.Errorf("unset attributes must be skipped, got %v", diffs)
	}
}

func TestEntryCompareMD5(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(path, []byte("aaaaaaaa"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	snap, err := metadata.NewSnapshot(path)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if err := snap.EnsureChecksums(); err != nil {
		t.Fatalf("EnsureChecksums: %v", err)
	}
	e := NewEntry("data.bin")
	e.ApplySnapshot(snap)

	// Same size, different content: only the digest can tell.
	if err := os.WriteFile(path, []byte("bbbbbbbb"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	diffs, err := e.Compare(path, []string{"size", "md5"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(diffs) != 1 || diffs[0] != "md5" {
		t.Errorf("diffs = %v, want [md5]", diffs)
	}
}
