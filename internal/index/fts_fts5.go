//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

// The shadow table is standalone (not external-content): its rowid is
// pinned to files.id on every insert, and synchronization is an
// explicit, named operation inside the row's own transaction rather
// than an engine trigger. It must stay byte-for-byte re-derivable from
// the files row at all times.
func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS files_fts USING fts5(
			filename,
			title,
			summary,
			keywords,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, id int64, f FileRow) error {
	_, _ = tx.Exec(`DELETE FROM files_fts WHERE rowid = ?`, id)
	_, err := tx.Exec(`INSERT INTO files_fts (rowid, filename, title, summary, keywords) VALUES (?, ?, ?, ?, ?)`,
		id, f.Filename, orEmpty(f.Title), orEmpty(f.Summary), orEmpty(f.Keywords))
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id int64) {
	_, _ = tx.Exec(`DELETE FROM files_fts WHERE rowid = ?`, id)
}

// Search answers a search request with a date-filtered, recency-ordered
// listing. A non-blank query takes the full-text path (per-token prefix
// match over the shadow projection, joined back to full rows by id);
// otherwise it is a plain listing. Date predicates apply on both paths.
func (db *DB) Search(p SearchParams) ([]FileRow, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var sb strings.Builder
	var args []any
	if p.useFullText() {
		sb.WriteString(`
			SELECT f.id, f.path, f.filename, f.thumbnail, f.title, f.summary, f.keywords, f.modified, f.last_opened, f.snapshot_count
			FROM files f
			JOIN files_fts fts ON f.id = fts.rowid
			WHERE files_fts MATCH ?`)
		args = append(args, prefixQuery(p.Query))
	} else {
		sb.WriteString(`SELECT ` + selectCols + ` FROM files WHERE 1=1`)
	}
	args = appendDateFilters(&sb, args, p)
	sb.WriteString(" ORDER BY modified DESC LIMIT ?")
	args = append(args, limit)

	rows, err := db.conn.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return collectFiles(rows)
}
