package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/othala/internal/storage"
)

// EventCallback is called after a watcher-driven catalog change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the library root and processes
// file change events until ctx is cancelled. It calls cb (if non-nil)
// after each successful catalog mutation.
//
// New directories created at runtime are automatically added to the
// watch list. Rename events trigger a debounced reconciliation pass
// that removes stale entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, store storage.Provider, libraryRoot string, logger *slog.Logger, cb EventCallback) error {
	root, err := filepath.Abs(libraryRoot)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	// reconcileTimer debounces rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			if n, recErr := db.Reconcile(store, root, logger); recErr != nil {
				logger.Warn("watcher: reconcile failed", slog.String("error", recErr.Error()))
			} else {
				logger.Debug("watcher: reconciled", slog.Int("processed", n))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: add to the watch list and pick up any
			// documents already inside.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					indexNewDir(db, store, absPath, logger, cb)
					continue
				}
			}

			// Only document files from here on.
			if !strings.HasSuffix(absPath, storage.DocumentExt) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(absPath)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", absPath), slog.String("error", readErr.Error()))
					continue
				}
				if idxErr := indexDocument(db, absPath, data); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("path", absPath), slog.String("error", idxErr.Error()))
					continue
				}
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				logger.Debug("watcher: indexed", slog.String("path", absPath), slog.String("op", kind))
				if cb != nil {
					cb(kind, absPath)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteFile(absPath); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", absPath), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", absPath))
				if cb != nil {
					cb("deleted", absPath)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new
				// path arrives as a separate Create event (if it stays
				// within a watched dir). Delete the old entry now and
				// schedule a reconciliation pass for stragglers.
				if delErr := db.DeleteFile(absPath); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", absPath), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("path", absPath))
					if cb != nil {
						cb("deleted", absPath)
					}
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// indexNewDir indexes any document files found in a newly created directory.
func indexNewDir(db *DB, store storage.Provider, dirPath string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, storage.DocumentExt) {
			return nil
		}
		data, readErr := store.Read(path)
		if readErr != nil {
			return nil
		}
		if idxErr := indexDocument(db, path, data); idxErr == nil {
			logger.Debug("watcher: indexed from new dir", slog.String("path", path))
			if cb != nil {
				cb("created", path)
			}
		}
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
