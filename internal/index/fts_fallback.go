//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; search falls back to LIKE over the base
	// columns. No shadow table to maintain.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ int64, _ FileRow) error { return nil }

func ftsDelete(_ *sql.Tx, _ int64) {}

// Search performs a LIKE-based search (fallback when FTS5 is not
// compiled in). Tokens match as substrings rather than term prefixes,
// an approximation of the FTS5 semantics; date filtering, ordering,
// and the blank-query listing path behave identically.
func (db *DB) Search(p SearchParams) ([]FileRow, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var sb strings.Builder
	var args []any
	sb.WriteString(`SELECT ` + selectCols + ` FROM files WHERE 1=1`)
	if p.useFullText() {
		for _, tok := range strings.Fields(p.Query) {
			sb.WriteString(" AND (filename LIKE ? OR title LIKE ? OR summary LIKE ? OR keywords LIKE ?)")
			like := "%" + tok + "%"
			args = append(args, like, like, like, like)
		}
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
