package md5cache

import (
	"database/sql"
	"fmt"
)

const checksumsTableDDL = `
CREATE TABLE IF NOT EXISTS checksums (
    relpath TEXT PRIMARY KEY,
    size INTEGER NOT NULL,
    mtime_ns INTEGER NOT NULL,
    md5 TEXT NOT NULL,
    uncompressed_md5 TEXT NOT NULL
);
`

// initSchema creates the checksum table.
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(checksumsTableDDL); err != nil {
		return fmt.Errorf("failed to execute DDL: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for the store's small, frequent
// writes.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}
