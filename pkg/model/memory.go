package model

import (
	"time"

	"github.com/google/uuid"
)

type MemoryID string

// NewMemoryID generates a new unique MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// Well-known metadata keys. The set below is what the built-in flows write;
// any other key is carried opaquely.
const (
	MetaSource    = "source"
	MetaRole      = "role"
	MetaLanguage  = "language"
	MetaWorkspace = "workspace"
	MetaFilename  = "filename"
	MetaKind      = "kind"
	MetaChunk     = "chunk"
)

// MemoryRecord is a single long-term memory entry: a chunk of a document or a
// chat turn. Records are immutable once created except for full replacement by
// re-insertion under the same ID. CreatedAt is set by the store on first insert
// and preserved across overwrites.
type MemoryRecord struct {
	ID        MemoryID
	Text      string
	Metadata  map[string]string
	CreatedAt time.Time
}

// CloneMetadata returns a shallow copy so stored records never alias caller maps.
func CloneMetadata(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	cp := make(map[string]string, len(meta))
	for k, v := range meta {
		cp[k] = v
	}
	return cp
}
