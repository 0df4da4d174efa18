// Package envelope parses the on-disk document format: a JSON object
// carrying the document content plus embedded metadata (thumbnail,
// keywords, front matter, snapshots).
package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/starford/othala/internal/apperr"
)

// Envelope holds the metadata extracted from a document file.
// Only the fields the catalog cares about are kept; the document body
// itself is opaque to the index.
type Envelope struct {
	Thumbnail     *string
	Keywords      []string
	Title         *string
	Summary       *string
	Modified      *string
	SnapshotCount int
}

type rawFrontMatter struct {
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	Modified *string `json:"modified"`
}

type rawEnvelope struct {
	Thumbnail   *string           `json:"thumbnail"`
	Keywords    []string          `json:"keywords"`
	FrontMatter *rawFrontMatter   `json:"frontMatter"`
	Snapshots   []json.RawMessage `json:"snapshots"`
}

// Parse decodes raw document bytes into an Envelope. Every top-level
// field is optional; a missing frontMatter object simply yields nil
// title/summary/modified. Invalid JSON is reported as a malformed
// document.
func Parse(data []byte) (*Envelope, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("envelope: %w: %v", apperr.ErrMalformedDocument, err)
	}

	env := &Envelope{
		Thumbnail:     raw.Thumbnail,
		Keywords:      raw.Keywords,
		SnapshotCount: len(raw.Snapshots),
	}
	if raw.FrontMatter != nil {
		env.Title = raw.FrontMatter.Title
		env.Summary = raw.FrontMatter.Summary
		env.Modified = raw.FrontMatter.Modified
	}
	return env, nil
}
