package metadata

import (
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewSnapshotFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.fastq.gz")
	writeFile(t, path, "@read1\nACGT\n+\nIIII\n")

	s, err := NewSnapshot(path)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if s.Kind != KindFile {
		t.Errorf("kind = %v, want file", s.Kind)
	}
	if s.Basename() != "sample.fastq.gz" {
		t.Errorf("basename = %q", s.Basename())
	}
	if s.Size != 19 {
		t.Errorf("size = %d, want 19", s.Size)
	}
	if s.Ext != "fastq" || s.Compression != "gz" {
		t.Errorf("ext/compression = %q/%q, want fastq/gz", s.Ext, s.Compression)
	}
	if s.Timestamp.IsZero() {
		t.Errorf("timestamp not captured")
	}
	if !s.IsReadable() {
		t.Errorf("expected regular file to be readable")
	}
	if s.MD5() != "" || s.UncompressedMD5() != "" {
		t.Errorf("checksums should not be computed at construction")
	}
}

func TestNewSnapshotDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshot(dir)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if s.Kind != KindDir {
		t.Errorf("kind = %v, want dir", s.Kind)
	}
	if s.Kind.Code() != "d" {
		t.Errorf("code = %q, want d", s.Kind.Code())
	}
	if err := s.EnsureChecksums(); err != nil {
		t.Fatalf("EnsureChecksums on dir: %v", err)
	}
	if s.MD5() != "" {
		t.Errorf("directories must not get checksums")
	}
}

func TestNewSnapshotSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink("data", link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	s, err := NewSnapshot(link)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if s.Kind != KindSymlink {
		t.Errorf("kind = %v, want symlink even when target is a dir", s.Kind)
	}
	if s.Target != "data" {
		t.Errorf("target = %q, want data", s.Target)
	}
}

func TestBrokenSymlinkIsReadable(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink("no-such-file", link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	s, err := NewSnapshot(link)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if s.Target != "no-such-file" {
		t.Errorf("target = %q", s.Target)
	}
	if !s.IsReadable() {
		t.Errorf("broken symlink content is its target string, must be readable")
	}
}

func TestKindFromCode(t *testing.T) {
	for code, want := range map[string]Kind{"f": KindFile, "d": KindDir, "s": KindSymlink} {
		got, err := KindFromCode(code)
		if err != nil {
			t.Fatalf("KindFromCode(%q): %v", code, err)
		}
		if got != want {
			t.Errorf("KindFromCode(%q) = %v, want %v", code, got, want)
		}
	}
	if _, err := KindFromCode("x"); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestEnsureChecksumsPlain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "hello arqvist\n"
	writeFile(t, path, content)

	s, err := NewSnapshot(path)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if err := s.EnsureChecksums(); err != nil {
		t.Fatalf("EnsureChecksums: %v", err)
	}
	sum := md5.Sum([]byte(content))
	want := hex.EncodeToString(sum[:])
	if s.MD5() != want {
		t.Errorf("md5 = %q, want %q", s.MD5(), want)
	}
	if s.UncompressedMD5() != want {
		t.Errorf("uncompressed md5 should equal md5 for plain files")
	}
}

func TestEnsureChecksumsGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reads.fastq.gz")
	content := []byte("@read1\nACGTACGT\n+\nIIIIIIII\n")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write(content); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err := NewSnapshot(path)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if err := s.EnsureChecksums(); err != nil {
		t.Fatalf("EnsureChecksums: %v", err)
	}
	sum := md5.Sum(content)
	want := hex.EncodeToString(sum[:])
	if s.UncompressedMD5() != want {
		t.Errorf("uncompressed md5 = %q, want digest of decompressed content %q", s.UncompressedMD5(), want)
	}
	if s.MD5() == s.UncompressedMD5() {
		t.Errorf("plain and uncompressed digests should differ for gzip files")
	}
}

func TestUncompressedMD5SumUnknownScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xz")
	writeFile(t, path, "payload")

	if _, err := UncompressedMD5Sum(path, "xz"); !errors.Is(err, ErrUnknownCompression) {
		t.Errorf("expected ErrUnknownCompression, got %v", err)
	}
}

func TestSetChecksumsSkipsHashing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	writeFile(t, path, "content")

	s, err := NewSnapshot(path)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	s.SetChecksums("cached-md5", "cached-unc")
	if err := s.EnsureChecksums(); err != nil {
		t.Fatalf("EnsureChecksums: %v", err)
	}
	if s.MD5() != "cached-md5" || s.UncompressedMD5() != "cached-unc" {
		t.Errorf("memoized checksums were recomputed: %q/%q", s.MD5(), s.UncompressedMD5())
	}
}
