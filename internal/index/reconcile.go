package index

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/starford/othala/internal/envelope"
	"github.com/starford/othala/internal/storage"
)

// Reconcile makes the catalog agree with the filesystem under root:
// every document found on disk is parsed and upserted, then stored
// paths whose backing file is gone are pruned. The whole pass runs as
// one critical section, so no query or mutation can interleave with a
// rebuild.
//
// Unreadable or malformed documents are skipped and reported through
// the logger; they do not count as processed and do not abort the pass.
// Returns the number of documents inserted or updated.
func (db *DB) Reconcile(store storage.Provider, root string, logger *slog.Logger) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	// Pure enumeration first; fails fast when root does not exist.
	paths, err := store.List(root)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range paths {
		data, err := store.Read(p)
		if err != nil {
			logger.Warn("reconcile: read failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		env, err := envelope.Parse(data)
		if err != nil {
			logger.Warn("reconcile: parse failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		if _, err := db.upsert(upsertPreserveSQL, rowFromEnvelope(p, env)); err != nil {
			logger.Warn("reconcile: upsert failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("reconcile: indexed", slog.String("path", p))
		count++
	}

	// Prune stale entries in a single pass after the walk. A file
	// renamed mid-scan may appear under both paths until the next run.
	stored, err := db.allPaths()
	if err != nil {
		return count, err
	}
	for _, p := range stored {
		if store.Exists(p) {
			continue
		}
		if err := db.delete(p); err != nil {
			logger.Warn("reconcile: prune failed", slog.String("path", p), slog.String("error", err.Error()))
		} else {
			logger.Debug("reconcile: pruned", slog.String("path", p))
		}
	}

	return count, nil
}

// rowFromEnvelope derives the catalog row for a document at path.
// Keywords flatten to a single space-joined token stream; an empty list
// stays absent, not empty string. last_opened is seeded from the
// document's modified time so first-time inserts appear in recency
// views; the COALESCE upsert keeps any real user timestamp on revisit.
func rowFromEnvelope(path string, env *envelope.Envelope) FileRow {
	row := FileRow{
		Path:          path,
		Filename:      filepath.Base(path),
		Thumbnail:     env.Thumbnail,
		Title:         env.Title,
		Summary:       env.Summary,
		Modified:      env.Modified,
		LastOpened:    env.Modified,
		SnapshotCount: env.SnapshotCount,
	}
	if kw := strings.Join(env.Keywords, " "); kw != "" {
		row.Keywords = &kw
	}
	return row
}

// indexDocument parses data and upserts it with reconciliation
// semantics. Used by the watcher for single-file refreshes.
func indexDocument(db *DB, path string, data []byte) error {
	env, err := envelope.Parse(data)
	if err != nil {
		return err
	}
	return db.upsertFromDisk(rowFromEnvelope(path, env))
}
