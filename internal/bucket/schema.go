// Package bucket provides SQLite-backed storage for notification documents
// and their index projection, with optional FTS5 full-text search.
package bucket

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id        TEXT PRIMARY KEY,
	timestamp INTEGER NOT NULL DEFAULT 0,
	subject   TEXT NOT NULL DEFAULT '',
	snippet   TEXT NOT NULL DEFAULT '',
	unread    INTEGER NOT NULL DEFAULT 0,
	noticon   TEXT NOT NULL DEFAULT '',
	icon      TEXT NOT NULL DEFAULT '',
	document  TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_notes_timestamp ON notes(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_notes_unread ON notes(unread) WHERE unread = 1;
`

// DB wraps a sql.DB with bucket-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("bucket: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bucket: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bucket: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bucket: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
