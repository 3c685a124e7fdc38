// Package snapshot persists the association cache and puzzle history to
// SQLite across process boundaries. It is invoked only at the edges of
// the process lifecycle and after a generation round, never mid-search.
package snapshot

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS words (
	word         TEXT PRIMARY KEY,
	associations TEXT NOT NULL DEFAULT '[]',
	detailed     TEXT NOT NULL DEFAULT '[]',
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS puzzles (
	id           TEXT PRIMARY KEY,
	start_word   TEXT NOT NULL,
	target_word  TEXT NOT NULL,
	path         TEXT NOT NULL DEFAULT '[]',
	min_steps    INTEGER NOT NULL DEFAULT 0,
	theme_label  TEXT NOT NULL DEFAULT '',
	theme_desc   TEXT NOT NULL DEFAULT '',
	difficulty   TEXT NOT NULL DEFAULT '',
	generated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_puzzles_generated_at ON puzzles(generated_at);
`

// DB wraps the SQLite connection holding the snapshot.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the snapshot database at path and
// applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("snapshot: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
