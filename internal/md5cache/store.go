// Package md5cache memoizes content checksums in a SQLite database
// inside the reserved cache subdirectory, so repeated checksum-bearing
// scans do not re-hash files whose size and mtime are unchanged.
package md5cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// StoreFileName is the database file inside the cache subdirectory.
const StoreFileName = "checksums.db"

const lookupSQL = `SELECT size, mtime_ns, md5, uncompressed_md5 FROM checksums WHERE relpath = ?`
const upsertSQL = `INSERT OR REPLACE INTO checksums (relpath, size, mtime_ns, md5, uncompressed_md5) VALUES (?, ?, ?, ?, ?)`
const deleteSQL = `DELETE FROM checksums WHERE relpath = ?`

// Store is a checksum memo store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checksum store: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the stored checksums for relpath when the recorded
// size and mtime still match; a mismatch or missing row reports no hit.
func (s *Store) Lookup(relpath string, size int64, mtime time.Time) (md5sum, uncompressed string, ok bool) {
	var storedSize, storedMtime int64
	err := s.db.QueryRow(lookupSQL, relpath).Scan(&storedSize, &storedMtime, &md5sum, &uncompressed)
	if err != nil {
		// sql.ErrNoRows and real failures both degrade to a recompute.
		return "", "", false
	}
	if storedSize != size || storedMtime != mtime.UnixNano() {
		return "", "", false
	}
	return md5sum, uncompressed, true
}

// Store records the checksums for relpath at the given size and mtime,
// replacing any previous row.
func (s *Store) Store(relpath string, size int64, mtime time.Time, md5sum, uncompressed string) error {
	if _, err := s.db.Exec(upsertSQL, relpath, size, mtime.UnixNano(), md5sum, uncompressed); err != nil {
		return fmt.Errorf("failed to record checksum: %w", err)
	}
	return nil
}

// Forget drops the row for relpath, if any.
func (s *Store) Forget(relpath string) error {
	if _, err := s.db.Exec(deleteSQL, relpath); err != nil {
		return fmt.Errorf("failed to forget checksum: %w", err)
	}
	return nil
}
