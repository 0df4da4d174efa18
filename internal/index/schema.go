// Package index provides the SQLite-backed library catalog: a files
// table plus a full-text shadow projection kept in lockstep with it.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	id             INTEGER PRIMARY KEY,
	path           TEXT UNIQUE NOT NULL,
	filename       TEXT NOT NULL,
	thumbnail      TEXT,
	title          TEXT,
	summary        TEXT,
	keywords       TEXT,
	modified       TEXT,
	last_opened    TEXT,
	snapshot_count INTEGER NOT NULL DEFAULT 0
);
`

// DB wraps a sql.DB with catalog-specific operations.
//
// Exactly one logical operation runs against the store at a time: every
// exported method holds mu for its full duration, and a reconciliation
// pass holds it across the entire walk, parse, upsert, and prune
// sequence.
type DB struct {
	mu   sync.Mutex
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// The parent directory is created if absent, so a per-user default
// location works on first use.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("index: create db dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
