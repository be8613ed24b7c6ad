package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// ErrUnsupportedKind is returned for filesystem entries that are not a
// regular file, directory or symlink (sockets, devices, fifos).
var ErrUnsupportedKind = errors.New("unsupported filesystem entry kind")

// Snapshot holds the observed metadata for a single filesystem entry.
// It is built from an lstat at construction time; the checksum fields
// are expensive and only populated by EnsureChecksums.
type Snapshot struct {
	Path        string
	Kind        Kind
	Size        int64
	Timestamp   time.Time
	Mode        fs.FileMode // permission bits only
	UID         int
	GID         int
	Ext         string
	Compression string
	Target      string // symlink target, raw and unresolved

	md5    string
	uncmd5 string
}

// NewSnapshot stats path (without following symlinks) and captures its
// metadata. Entries that are not a file, directory or symlink produce
// ErrUnsupportedKind.
func NewSnapshot(path string) (*Snapshot, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	return newSnapshot(path, info)
}

func newSnapshot(path string, info fs.FileInfo) (*Snapshot, error) {
	kind, err := KindFromMode(info.Mode())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s := &Snapshot{
		Path:      path,
		Kind:      kind,
		Size:      info.Size(),
		Timestamp: info.ModTime(),
		Mode:      info.Mode().Perm(),
	}
	s.Ext, s.Compression = SplitExtensions(filepath.Base(path))
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		s.UID = int(stat.Uid)
		s.GID = int(stat.Gid)
	}
	if kind == KindSymlink {
		target, err := os.Readlink(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read link target: %w", err)
		}
		s.Target = target
	}
	return s, nil
}

// Basename returns the final element of the snapshot's path.
func (s *Snapshot) Basename() string {
	return filepath.Base(s.Path)
}

// IsReadable reports whether the entry's content can be read by the
// current process: openable for files, listable for directories.
// Symlinks are always readable since their recorded content is the
// target string captured at construction.
func (s *Snapshot) IsReadable() bool {
	if s.Kind == KindSymlink {
		return true
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// MD5 returns the plain checksum, or "" if not yet computed.
func (s *Snapshot) MD5() string { return s.md5 }

// UncompressedMD5 returns the checksum of the decompressed content, or
// "" if not yet computed. It equals MD5 for uncompressed files.
func (s *Snapshot) UncompressedMD5() string { return s.uncmd5 }

// EnsureChecksums computes the plain and decompressed checksums if they
// are not already present. Directories and symlinks are skipped. Once
// computed the values are fixed for the lifetime of the snapshot.
func (s *Snapshot) EnsureChecksums() error {
	if s.Kind != KindFile {
		return nil
	}
	if s.md5 == "" {
		sum, err := MD5Sum(s.Path)
		if err != nil {
			return err
		}
		s.md5 = sum
	}
	if s.uncmd5 == "" {
		if s.Compression == CompressionNone {
			s.uncmd5 = s.md5
		} else {
			sum, err := UncompressedMD5Sum(s.Path, s.Compression)
			if err != nil {
				return err
			}
			s.uncmd5 = sum
		}
	}
	return nil
}

// SetChecksums installs previously computed checksums (e.g. from the
// memo store) so EnsureChecksums will not re-hash the file.
func (s *Snapshot) SetChecksums(md5sum, uncompressed string) {
	s.md5 = md5sum
	s.uncmd5 = uncompressed
}
