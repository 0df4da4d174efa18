// Package libservice coordinates storage and index operations behind
// the library command surface.
package libservice

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/starford/othala/internal/envelope"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

// Service exposes the library commands over a shared store and index.
type Service struct {
	store  storage.Provider
	db     *index.DB
	logger *slog.Logger
}

// NewService creates a new library service.
func NewService(store storage.Provider, db *index.DB, logger *slog.Logger) *Service {
	return &Service{store: store, db: db, logger: logger}
}

// UpsertFile inserts or fully replaces a catalog entry by path and
// returns its id. The filename always mirrors the path's last segment.
func (s *Service) UpsertFile(_ context.Context, file models.LibraryFile) (int64, error) {
	if file.Path == "" {
		return 0, fmt.Errorf("libservice: path is required")
	}
	if file.Filename == "" {
		file.Filename = filepath.Base(file.Path)
	}
	return s.db.UpsertFile(toRow(file))
}

// GetRecentFiles returns entries with a recorded last_opened, most
// recently opened first.
func (s *Service) GetRecentFiles(_ context.Context, limit int) ([]models.LibraryFile, error) {
	rows, err := s.db.RecentFiles(limit)
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// SearchFiles answers a search request per the query engine rules.
func (s *Service) SearchFiles(_ context.Context, p index.SearchParams) ([]models.LibraryFile, error) {
	rows, err := s.db.Search(p)
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// RemoveFile deletes the entry for path. Absent paths are a no-op.
func (s *Service) RemoveFile(_ context.Context, path string) error {
	return s.db.DeleteFile(path)
}

// TouchLastOpened marks the entry at path as opened at timestamp.
// Absent paths are a no-op.
func (s *Service) TouchLastOpened(_ context.Context, path, timestamp string) error {
	return s.db.TouchLastOpened(path, timestamp)
}

// RebuildLibrary reconciles the catalog against the library under root
// and returns the number of documents processed.
func (s *Service) RebuildLibrary(_ context.Context, root string) (int, error) {
	return s.db.Reconcile(s.store, root, s.logger)
}

// InspectDocument reads a document's envelope metadata straight from
// disk, bypassing the index. A missing file yields zero-value metadata
// rather than an error, so callers can probe paths cheaply.
func (s *Service) InspectDocument(_ context.Context, path string) (*models.DocumentMetadata, error) {
	if !s.store.Exists(path) {
		return &models.DocumentMetadata{}, nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	env, err := envelope.Parse(data)
	if err != nil {
		return nil, err
	}
	return &models.DocumentMetadata{
		Thumbnail:     env.Thumbnail,
		Title:         env.Title,
		Summary:       env.Summary,
		Modified:      env.Modified,
		SnapshotCount: env.SnapshotCount,
	}, nil
}

func toRow(f models.LibraryFile) index.FileRow {
	return index.FileRow{
		ID:            f.ID,
		Path:          f.Path,
		Filename:      f.Filename,
		Thumbnail:     f.Thumbnail,
		Title:         f.Title,
		Summary:       f.Summary,
		Keywords:      f.Keywords,
		Modified:      f.Modified,
		LastOpened:    f.LastOpened,
		SnapshotCount: f.SnapshotCount,
	}
}

func fromRow(r index.FileRow) models.LibraryFile {
	return models.LibraryFile{
		ID:            r.ID,
		Path:          r.Path,
		Filename:      r.Filename,
		Thumbnail:     r.Thumbnail,
		Title:         r.Title,
		Summary:       r.Summary,
		Keywords:      r.Keywords,
		Modified:      r.Modified,
		LastOpened:    r.LastOpened,
		SnapshotCount: r.SnapshotCount,
	}
}

func fromRows(rows []index.FileRow) []models.LibraryFile {
	out := make([]models.LibraryFile, len(rows))
	for i, r := range rows {
		out[i] = fromRow(r)
	}
	return out
}
