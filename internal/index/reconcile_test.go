package index

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatal(err)
	}
	return abs
}

func TestReconcile_IndexesAllDocuments(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	writeDoc(t, root, "a.ssce", `{"frontMatter":{"title":"Alpha","modified":"2024-01-01"}}`)
	writeDoc(t, root, "sub/b.ssce", `{"frontMatter":{"title":"Beta","modified":"2024-02-01"}}`)
	writeDoc(t, root, "c.ssce", `{}`)
	writeDoc(t, root, "ignored.txt", `not a document`)

	n, err := db.Reconcile(storage.NewFS(), root, quietLogger())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if n != 3 {
		t.Errorf("processed = %d, want 3", n)
	}

	paths, err := db.AllPaths()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Errorf("indexed paths = %v, want 3", paths)
	}

	// Rerun is idempotent, no duplicate rows.
	n, err = db.Reconcile(storage.NewFS(), root, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("second pass processed = %d, want 3", n)
	}
	paths, _ = db.AllPaths()
	if len(paths) != 3 {
		t.Errorf("after rerun paths = %v, want 3", paths)
	}
}

func TestReconcile_PrunesDeletedFiles(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	keep := writeDoc(t, root, "keep.ssce", `{}`)
	gone := writeDoc(t, root, "gone.ssce", `{}`)

	if _, err := db.Reconcile(storage.NewFS(), root, quietLogger()); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Reconcile(storage.NewFS(), root, quietLogger()); err != nil {
		t.Fatal(err)
	}

	paths, err := db.AllPaths()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != keep {
		t.Errorf("paths after prune = %v, want only %s", paths, keep)
	}
}

func TestReconcile_SkipsMalformedAndKeepsGoing(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	writeDoc(t, root, "good.ssce", `{"frontMatter":{"title":"Good"}}`)
	writeDoc(t, root, "bad.ssce", `{{{not json`)

	n, err := db.Reconcile(storage.NewFS(), root, quietLogger())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if n != 1 {
		t.Errorf("processed = %d, want 1 (malformed skipped)", n)
	}
	paths, _ := db.AllPaths()
	if len(paths) != 1 {
		t.Errorf("indexed = %v, want only the good document", paths)
	}
}

func TestReconcile_MissingRoot(t *testing.T) {
	db := testDB(t)
	_, err := db.Reconcile(storage.NewFS(), filepath.Join(t.TempDir(), "nope"), quietLogger())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReconcile_SeedsLastOpenedFromModified(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	abs := writeDoc(t, root, "seed.ssce", `{"frontMatter":{"modified":"2024-04-01T09:00:00"}}`)

	if _, err := db.Reconcile(storage.NewFS(), root, quietLogger()); err != nil {
		t.Fatal(err)
	}
	f, err := db.GetFile(abs)
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.LastOpened == nil || *f.LastOpened != "2024-04-01T09:00:00" {
		t.Errorf("last_opened not seeded from modified: %+v", f)
	}
}

func TestReconcile_PreservesTouchedLastOpened(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	abs := writeDoc(t, root, "touched.ssce", `{"frontMatter":{"title":"Old","modified":"2024-01-01"}}`)

	if _, err := db.Reconcile(storage.NewFS(), root, quietLogger()); err != nil {
		t.Fatal(err)
	}
	if err := db.TouchLastOpened(abs, "2024-06-01T10:00:00"); err != nil {
		t.Fatal(err)
	}

	// Subsequent reconcile must not clobber the user's open timestamp.
	if _, err := db.Reconcile(storage.NewFS(), root, quietLogger()); err != nil {
		t.Fatal(err)
	}
	f, err := db.GetFile(abs)
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.LastOpened == nil || *f.LastOpened != "2024-06-01T10:00:00" {
		t.Errorf("last_opened = %v, want the touched timestamp kept", f.LastOpened)
	}
	if f.Title == nil || *f.Title != "Old" {
		t.Errorf("metadata fields should still refresh: %+v", f)
	}
}

func TestReconcile_KeywordsFlattened(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	withKw := writeDoc(t, root, "kw.ssce", `{"keywords":["alpha","beta"]}`)
	noKw := writeDoc(t, root, "plain.ssce", `{"keywords":[]}`)

	if _, err := db.Reconcile(storage.NewFS(), root, quietLogger()); err != nil {
		t.Fatal(err)
	}

	f, _ := db.GetFile(withKw)
	if f == nil || f.Keywords == nil || *f.Keywords != "alpha beta" {
		t.Errorf("keywords = %+v, want joined string", f)
	}
	f, _ = db.GetFile(noKw)
	if f == nil || f.Keywords != nil {
		t.Errorf("empty keyword list should stay absent, got %+v", f)
	}
}

func TestReconcile_SnapshotCount(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	abs := writeDoc(t, root, "snaps.ssce", `{"snapshots":[{"a":1},{"b":2},{"c":3}]}`)

	if _, err := db.Reconcile(storage.NewFS(), root, quietLogger()); err != nil {
		t.Fatal(err)
	}
	f, _ := db.GetFile(abs)
	if f == nil || f.SnapshotCount != 3 {
		t.Errorf("snapshot_count = %+v, want 3", f)
	}
}
