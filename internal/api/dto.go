package api

import "github.com/starford/othala/internal/models"

// LibraryFile is the catalog entry payload (aliased from the domain layer).
type LibraryFile = models.LibraryFile

// DocumentMetadata is the inspect response payload (aliased from the domain layer).
type DocumentMetadata = models.DocumentMetadata

// TouchRequest is the request body for marking a file as opened.
type TouchRequest struct {
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
}

// RebuildRequest is the request body for a library rebuild.
type RebuildRequest struct {
	Path string `json:"path"`
}

// UpsertResponse carries the id assigned (or kept) by an upsert.
type UpsertResponse struct {
	ID int64 `json:"id"`
}

// RebuildResponse carries the number of documents processed by a rebuild.
type RebuildResponse struct {
	Processed int `json:"processed"`
}

// FileListResponse wraps file listings.
type FileListResponse struct {
	Files []LibraryFile `json:"files"`
}
