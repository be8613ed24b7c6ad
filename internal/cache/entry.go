// Package cache implements the directory snapshot cache: per-path
// cache entries, the DirCache orchestrating build/update/status/save,
// the tab-separated manifest format and the upward cache locator.
package cache

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/arqvist/arqvist/internal/metadata"
)

// ErrUnknownField is returned when an entry is constructed with a field
// name outside the fixed attribute set. This signals a programming
// error or manifest corruption, not a recoverable runtime condition.
var ErrUnknownField = errors.New("unknown cache entry field")

// FileAttributes is the fixed, ordered attribute set persisted for each
// tracked path. The order defines the manifest column order.
var FileAttributes = []string{
	"basename",
	"type",
	"size",
	"timestamp",
	"mode",
	"uid",
	"gid",
	"ext",
	"compression",
	"md5",
	"uncompressed_md5",
	"target",
	"relpath",
}

// TimestampLayout is the textual form timestamps take in the manifest.
const TimestampLayout = time.RFC3339Nano

// Entry holds the persisted metadata for one tracked relpath. Relpath,
// basename, ext and compression are always populated; the remaining
// fields are unset (nil pointer or empty string) until observed.
type Entry struct {
	Relpath         string
	Basename        string
	Type            string // one-letter kind code, "" when unknown
	Size            *int64
	Timestamp       *time.Time
	Mode            string // octal permission bits, "" when unknown
	UID             *int
	GID             *int
	Ext             string
	Compression     string
	MD5             string
	UncompressedMD5 string
	Target          string // symlink target, "" for non-symlinks
}

// NewEntry creates an entry for relpath with the name-derived
// attributes populated and everything else unset.
func NewEntry(relpath string) *Entry {
	e := &Entry{
		Relpath:  relpath,
		Basename: path.Base(relpath),
	}
	e.Ext, e.Compression = metadata.SplitExtensions(e.Basename)
	return e
}

// NewEntryFromFields creates an entry for relpath and applies the given
// field values (as deserialized from a manifest). The literal "None"
// leaves a field unset. A field name outside FileAttributes is a hard
// error.
func NewEntryFromFields(relpath string, fields map[string]string) (*Entry, error) {
	e := NewEntry(relpath)
	for name, value := range fields {
		if err := e.setField(name, value); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Entry) setField(name, value string) error {
	unset := value == "None"
	switch name {
	case "relpath", "basename", "ext", "compression":
		// Always derived from the path string.
	case "type":
		if !unset {
			if _, err := metadata.KindFromCode(value); err != nil {
				return err
			}
			e.Type = value
		}
	case "size":
		if !unset {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("%s: bad size %q: %w", e.Relpath, value, err)
			}
			e.Size = &n
		}
	case "timestamp":
		if !unset {
			t, err := time.Parse(TimestampLayout, value)
			if err != nil {
				return fmt.Errorf("%s: bad timestamp %q: %w", e.Relpath, value, err)
			}
			e.Timestamp = &t
		}
	case "mode":
		if !unset {
			e.Mode = value
		}
	case "uid":
		if !unset {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s: bad uid %q: %w", e.Relpath, value, err)
			}
			e.UID = &n
		}
	case "gid":
		if !unset {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s: bad gid %q: %w", e.Relpath, value, err)
			}
			e.GID = &n
		}
	case "md5":
		if !unset {
			e.MD5 = value
		}
	case "uncompressed_md5":
		if !unset {
			e.UncompressedMD5 = value
		}
	case "target":
		if !unset {
			e.Target = value
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// FieldValue returns the manifest text for the named attribute, with
// unset values spelled as the literal "None".
func (e *Entry) FieldValue(name string) string {
	switch name {
	case "relpath":
		return e.Relpath
	case "basename":
		return e.Basename
	case "type":
		if e.Type == "" {
			return "None"
		}
		return e.Type
	case "size":
		if e.Size == nil {
			return "None"
		}
		return strconv.FormatInt(*e.Size, 10)
	case "timestamp":
		if e.Timestamp == nil {
			return "None"
		}
		return e.Timestamp.Format(TimestampLayout)
	case "mode":
		if e.Mode == "" {
			return "None"
		}
		return e.Mode
	case "uid":
		if e.UID == nil {
			return "None"
		}
		return strconv.Itoa(*e.UID)
	case "gid":
		if e.GID == nil {
			return "None"
		}
		return strconv.Itoa(*e.GID)
	case "ext":
		return e.Ext
	case "compression":
		return e.Compression
	case "md5":
		if e.MD5 == "" {
			return "None"
		}
		return e.MD5
	case "uncompressed_md5":
		if e.UncompressedMD5 == "" {
			return "None"
		}
		return e.UncompressedMD5
	case "target":
		if e.Target == "" {
			return "None"
		}
		return e.Target
	}
	return "None"
}

// ApplySnapshot refreshes the entry's attributes from a live metadata
// snapshot. Checksum fields are only overwritten when the snapshot has
// computed them; otherwise the stored values are kept.
func (e *Entry) ApplySnapshot(s *metadata.Snapshot) {
	e.Type = s.Kind.Code()
	size := s.Size
	e.Size = &size
	ts := s.Timestamp
	e.Timestamp = &ts
	e.Mode = fmt.Sprintf("%04o", uint32(s.Mode))
	uid, gid := s.UID, s.GID
	e.UID = &uid
	e.GID = &gid
	e.Ext = s.Ext
	e.Compression = s.Compression
	e.Target = s.Target
	if s.MD5() != "" {
		e.MD5 = s.MD5()
		e.UncompressedMD5 = s.UncompressedMD5()
	}
}

// DefaultCompareAttributes is the attribute set Compare uses when the
// caller does not choose one.
var DefaultCompareAttributes = []string{"size", "timestamp"}

// Compare stats livePath and returns the names of the requested
// attributes whose live value differs from the cached one. Attributes
// absent on either side (a symlink target on a regular file, a
// checksum never computed) are silently skipped. Requesting md5 or
// uncompressed_md5 hashes the live file when the cache holds a value
// to compare against.
func (e *Entry) Compare(livePath string, attributes []string) ([]string, error) {
	if len(attributes) == 0 {
		attributes = DefaultCompareAttributes
	}
	live, err := metadata.NewSnapshot(livePath)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, attr := range attributes {
		differs := false
		switch attr {
		case "basename":
			differs = e.Basename != live.Basename()
		case "type":
			differs = e.Type != "" && e.Type != live.Kind.Code()
		case "size":
			differs = e.Size != nil && *e.Size != live.Size
		case "timestamp":
			differs = e.Timestamp != nil && !e.Timestamp.Equal(live.Timestamp)
		case "mode":
			differs = e.Mode != "" && e.Mode != fmt.Sprintf("%04o", uint32(live.Mode))
		case "uid":
			differs = e.UID != nil && *e.UID != live.UID
		case "gid":
			differs = e.GID != nil && *e.GID != live.GID
		case "ext":
			differs = e.Ext != live.Ext
		case "compression":
			differs = e.Compression != live.Compression
		case "target":
			differs = e.Target != "" && live.Kind == metadata.KindSymlink &&
				e.Target != live.Target
		case "md5", "uncompressed_md5":
			cached := e.MD5
			if attr == "uncompressed_md5" {
				cached = e.UncompressedMD5
			}
			if cached == "" || live.Kind != metadata.KindFile {
				break
			}
			if err := live.EnsureChecksums(); err != nil {
				return nil, err
			}
			if attr == "md5" {
				differs = cached != live.MD5()
			} else {
				differs = cached != live.UncompressedMD5()
			}
		}
		if differs {
			changed = append(changed, attr)
		}
	}
	return changed, nil
}

// IsStale reports whether the cached size/timestamp no longer match the
// live values. Size is meaningless for directories and is not compared
// for them; a timestamp change alone marks a directory stale.
func (e *Entry) IsStale(size int64, timestamp time.Time) bool {
	if e.Timestamp == nil || !e.Timestamp.Equal(timestamp) {
		return true
	}
	if e.Type == metadata.KindDir.Code() {
		return false
	}
	return e.Size == nil || *e.Size != size
}
