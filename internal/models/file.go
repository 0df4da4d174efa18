// Package models defines the domain types for Othala.
package models

// LibraryFile represents one indexed document in the library catalog.
// Optional fields are pointers so that "absent" survives the round trip
// through both JSON and the database (NULL, not empty string).
type LibraryFile struct {
	ID            int64   `json:"id"`
	Path          string  `json:"path"`
	Filename      string  `json:"filename"`
	Thumbnail     *string `json:"thumbnail,omitempty"`
	Title         *string `json:"title,omitempty"`
	Summary       *string `json:"summary,omitempty"`
	Keywords      *string `json:"keywords,omitempty"`
	Modified      *string `json:"modified,omitempty"`
	LastOpened    *string `json:"last_opened,omitempty"`
	SnapshotCount int     `json:"snapshot_count"`
}

// DocumentMetadata is the envelope summary returned by inspect operations,
// read straight from disk without touching the index.
type DocumentMetadata struct {
	Thumbnail     *string `json:"thumbnail,omitempty"`
	Title         *string `json:"title,omitempty"`
	Summary       *string `json:"summary,omitempty"`
	Modified      *string `json:"modified,omitempty"`
	SnapshotCount int     `json:"snapshot_count"`
}
