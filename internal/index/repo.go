package index

import (
	"database/sql"
	"errors"
	"fmt"
)

// FileRow represents a row in the files table. Pointer fields map to
// nullable columns.
type FileRow struct {
	ID            int64
	Path          string
	Filename      string
	Thumbnail     *string
	Title         *string
	Summary       *string
	Keywords      *string
	Modified      *string
	LastOpened    *string
	SnapshotCount int
}

const selectCols = `id, path, filename, thumbnail, title, summary, keywords, modified, last_opened, snapshot_count`

// upsertSQL fully replaces every field of an existing row on path
// conflict. Used by the direct mutation API.
const upsertSQL = `
	INSERT INTO files (path, filename, thumbnail, title, summary, keywords, modified, last_opened, snapshot_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		filename       = excluded.filename,
		thumbnail      = excluded.thumbnail,
		title          = excluded.title,
		summary        = excluded.summary,
		keywords       = excluded.keywords,
		modified       = excluded.modified,
		last_opened    = excluded.last_opened,
		snapshot_count = excluded.snapshot_count`

// upsertPreserveSQL is the reconciliation variant: an existing
// last_opened is never overwritten, it is only backfilled when no prior
// value exists. On first insert last_opened comes from the caller,
// seeded from the document's modified time.
const upsertPreserveSQL = `
	INSERT INTO files (path, filename, thumbnail, title, summary, keywords, modified, last_opened, snapshot_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		filename       = excluded.filename,
		thumbnail      = excluded.thumbnail,
		title          = excluded.title,
		summary        = excluded.summary,
		keywords       = excluded.keywords,
		modified       = excluded.modified,
		last_opened    = COALESCE(files.last_opened, excluded.last_opened),
		snapshot_count = excluded.snapshot_count`

// UpsertFile inserts a new row or fully replaces the row with the same
// path, and synchronizes the full-text shadow in the same transaction.
// Returns the row id (existing id on conflict).
func (db *DB) UpsertFile(f FileRow) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.upsert(upsertSQL, f)
}

// upsertFromDisk is the watcher-facing reconciliation upsert: same
// COALESCE tie-break as a full reconcile pass, one path at a time.
func (db *DB) upsertFromDisk(f FileRow) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.upsert(upsertPreserveSQL, f)
	return err
}

// upsert runs the given upsert statement and the matching shadow-index
// replacement as one atomic unit. Callers must hold db.mu.
func (db *DB) upsert(stmt string, f FileRow) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(stmt,
		f.Path, f.Filename, f.Thumbnail, f.Title, f.Summary,
		f.Keywords, f.Modified, f.LastOpened, f.SnapshotCount); err != nil {
		return 0, fmt.Errorf("index: upsert file: %w", err)
	}

	var id int64
	if err := tx.QueryRow(`SELECT id FROM files WHERE path = ?`, f.Path).Scan(&id); err != nil {
		return 0, fmt.Errorf("index: resolve id: %w", err)
	}

	// Shadow replacement: delete-old-then-insert-new, so an update never
	// leaves a stale partial projection behind.
	if err := ftsUpsert(tx, id, f); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("index: commit upsert: %w", err)
	}
	return id, nil
}

// DeleteFile removes the row for path and its shadow entry. Absent
// paths are a no-op, not an error.
func (db *DB) DeleteFile(path string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.delete(path)
}

func (db *DB) delete(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var id int64
	err = tx.QueryRow(`SELECT id FROM files WHERE path = ?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return tx.Commit()
	}
	if err != nil {
		return fmt.Errorf("index: lookup for delete: %w", err)
	}

	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM files WHERE id = ?`, id)

	return tx.Commit()
}

// TouchLastOpened updates only last_opened. No-op when path is absent;
// callers must not rely on this creating a row. The shadow projection
// does not include last_opened, so no re-sync is needed.
func (db *DB) TouchLastOpened(path, timestamp string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, err := db.conn.Exec(`UPDATE files SET last_opened = ? WHERE path = ?`, timestamp, path); err != nil {
		return fmt.Errorf("index: touch last_opened: %w", err)
	}
	return nil
}

// GetFile returns the row for path, or nil when absent.
func (db *DB) GetFile(path string) (*FileRow, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	row := db.conn.QueryRow(`SELECT `+selectCols+` FROM files WHERE path = ?`, path)
	var r FileRow
	err := scanFile(row.Scan, &r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get file: %w", err)
	}
	return &r, nil
}

// RecentFiles returns rows with a non-null last_opened, most recently
// opened first.
func (db *DB) RecentFiles(limit int) ([]FileRow, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := db.conn.Query(`
		SELECT `+selectCols+`
		FROM files
		WHERE last_opened IS NOT NULL
		ORDER BY last_opened DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("index: recent files: %w", err)
	}
	return collectFiles(rows)
}

// AllPaths returns every stored path.
func (db *DB) AllPaths() ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.allPaths()
}

func (db *DB) allPaths() ([]string, error) {
	rows, err := db.conn.Query(`SELECT path FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanFile(scan func(...any) error, r *FileRow) error {
	return scan(&r.ID, &r.Path, &r.Filename, &r.Thumbnail, &r.Title,
		&r.Summary, &r.Keywords, &r.Modified, &r.LastOpened, &r.SnapshotCount)
}

func collectFiles(rows *sql.Rows) ([]FileRow, error) {
	defer rows.Close()
	var out []FileRow
	for rows.Next() {
		var r FileRow
		if err := scanFile(rows.Scan, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
