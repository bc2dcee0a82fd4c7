// Package memstore is an in-memory store.Store implementation for tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/clinitext/spantag/pkg/spantag/internalerr"
	"github.com/clinitext/spantag/pkg/spantag/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]store.Doc
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{docs: make(map[string]store.Doc)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveDoc inserts or replaces a document, keyed by ID.
func (s *Store) SaveDoc(ctx context.Context, d store.Doc) error {
	if d.ID == "" {
		return fmt.Errorf("%w: document has no ID", internalerr.ErrInvalidConfig)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[d.ID] = copyDoc(d)
	return nil
}

// GetDoc returns a document by ID.
func (s *Store) GetDoc(ctx context.Context, id string) (store.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.docs[id]; ok {
		return copyDoc(d), nil
	}
	return store.Doc{}, fmt.Errorf("doc %s: %w", id, internalerr.ErrNotFound)
}

// ListDocs returns up to limit documents, most recently tagged first.
func (s *Store) ListDocs(ctx context.Context, limit int) ([]store.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Doc, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, copyDoc(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TaggedAt.Equal(out[j].TaggedAt) {
			return out[i].TaggedAt.After(out[j].TaggedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountByCategory returns span counts grouped by category.
func (s *Store) CountByCategory(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, d := range s.docs {
		for _, sp := range d.Spans {
			counts[sp.Category]++
		}
	}
	return counts, nil
}

// CountByRule returns span counts grouped by source rule name.
func (s *Store) CountByRule(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, d := range s.docs {
		for _, sp := range d.Spans {
			counts[sp.RuleName]++
		}
	}
	return counts, nil
}

func copyDoc(d store.Doc) store.Doc {
	out := d
	out.Spans = make([]store.SpanRecord, len(d.Spans))
	copy(out.Spans, d.Spans)
	return out
}
