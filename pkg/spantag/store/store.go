// Package store persists tagged documents and their spans.
package store

import (
	"context"
	"time"
)

// Store is the interface for persisting and querying tagged documents.
type Store interface {
	Close() error

	// SaveDoc inserts or replaces a tagged document, keyed by ID.
	SaveDoc(ctx context.Context, d Doc) error
	// GetDoc returns a document by ID, or an error wrapping
	// internalerr.ErrNotFound.
	GetDoc(ctx context.Context, id string) (Doc, error)
	// ListDocs returns up to limit documents, most recently tagged first.
	// limit <= 0 means no limit.
	ListDocs(ctx context.Context, limit int) ([]Doc, error)

	// CountByCategory returns span counts grouped by category label.
	CountByCategory(ctx context.Context) (map[string]int64, error)
	// CountByRule returns span counts grouped by source rule name.
	CountByRule(ctx context.Context) (map[string]int64, error)
}

// Doc is a stored tagged document.
type Doc struct {
	ID       string // ULID assigned at ingest time
	Name     string // caller-supplied source name, e.g. a filename
	Text     string
	TaggedAt time.Time
	Spans    []SpanRecord
}

// SpanRecord is a stored span.
type SpanRecord struct {
	Category   string
	RuleName   string
	Text       string
	TokenStart int
	TokenEnd   int
	CharStart  int
	CharEnd    int
}
