//go:build sqlite_fts5

package index

import "testing"

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM files_fts`).Scan(&count); err != nil {
		t.Fatalf("files_fts table missing: %v", err)
	}
}

func TestFTS5_ShadowMatchesRow(t *testing.T) {
	db := testDB(t)
	id, err := db.UpsertFile(sampleRow("/library/report.ssce"))
	if err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}

	var filename, title string
	err = db.conn.QueryRow(`SELECT filename, title FROM files_fts WHERE rowid = ?`, id).Scan(&filename, &title)
	if err != nil {
		t.Fatalf("shadow entry missing for id %d: %v", id, err)
	}
	if filename != "report.ssce" || title != "Quarterly Report" {
		t.Errorf("shadow projection = (%q, %q)", filename, title)
	}
}

func TestFTS5_UpsertReplacesShadow(t *testing.T) {
	db := testDB(t)
	_, _ = db.UpsertFile(FileRow{Path: "/l/evo.ssce", Filename: "evo.ssce", Title: str("Original Draft")})
	_, _ = db.UpsertFile(FileRow{Path: "/l/evo.ssce", Filename: "evo.ssce", Title: str("Replacement Draft")})

	hits, _ := db.Search(SearchParams{Query: "original"})
	if len(hits) != 0 {
		t.Error("stale shadow content still matches after update")
	}
	hits, _ = db.Search(SearchParams{Query: "replacement"})
	if len(hits) != 1 || *hits[0].Title != "Replacement Draft" {
		t.Errorf("shadow not updated: %+v", hits)
	}

	var count int
	_ = db.conn.QueryRow(`SELECT count(*) FROM files_fts`).Scan(&count)
	if count != 1 {
		t.Errorf("shadow rows = %d, want exactly 1 per file", count)
	}
}

func TestFTS5_DeleteRemovesShadow(t *testing.T) {
	db := testDB(t)
	id, _ := db.UpsertFile(FileRow{Path: "/l/gone.ssce", Filename: "gone.ssce", Title: str("Vanishing")})
	_ = db.DeleteFile("/l/gone.ssce")

	var count int
	_ = db.conn.QueryRow(`SELECT count(*) FROM files_fts WHERE rowid = ?`, id).Scan(&count)
	if count != 0 {
		t.Error("deleted file still in shadow index")
	}
}

func TestFTS5_MultiTokenConjunction(t *testing.T) {
	db := testDB(t)
	_, _ = db.UpsertFile(FileRow{Path: "/l/a.ssce", Filename: "a.ssce", Title: str("Quarterly Report"), Modified: str("2024-01-01")})
	_, _ = db.UpsertFile(FileRow{Path: "/l/b.ssce", Filename: "b.ssce", Title: str("Quarterly Plan"), Modified: str("2024-02-01")})

	// All tokens must match as prefixes, in any projected field.
	hits, err := db.Search(SearchParams{Query: "quart rep"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Path != "/l/a.ssce" {
		t.Errorf("conjunction hits = %+v, want only the report", hits)
	}
}

func TestFTS5_KeywordsSearchable(t *testing.T) {
	db := testDB(t)
	_, _ = db.UpsertFile(FileRow{Path: "/l/k.ssce", Filename: "k.ssce", Keywords: str("budget forecast")})

	hits, err := db.Search(SearchParams{Query: "fore"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("keyword prefix not matched: %+v", hits)
	}
}
