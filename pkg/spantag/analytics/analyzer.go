// Package analytics summarizes span frequencies across a store of tagged
// documents.
package analytics

import (
	"context"
	"sort"

	"github.com/clinitext/spantag/pkg/spantag/store"
)

// Analyzer builds frequency reports over a store.
type Analyzer struct {
	store store.Store
}

// NewAnalyzer creates an analyzer over the given store.
func NewAnalyzer(s store.Store) *Analyzer {
	return &Analyzer{store: s}
}

// Count is one entry of a frequency table.
type Count struct {
	Key   string
	Count int64
}

// Report summarizes the spans in a store.
type Report struct {
	Docs       int
	Spans      int64
	Categories []Count // by category, descending count
	Rules      []Count // by source rule, descending count
}

// Report computes span frequencies across all stored documents. Ties are
// broken by key so output order is deterministic.
func (a *Analyzer) Report(ctx context.Context) (Report, error) {
	docs, err := a.store.ListDocs(ctx, 0)
	if err != nil {
		return Report{}, err
	}

	byCategory, err := a.store.CountByCategory(ctx)
	if err != nil {
		return Report{}, err
	}
	byRule, err := a.store.CountByRule(ctx)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		Docs:       len(docs),
		Categories: sortCounts(byCategory),
		Rules:      sortCounts(byRule),
	}
	for _, c := range rep.Categories {
		rep.Spans += c.Count
	}
	return rep, nil
}

func sortCounts(m map[string]int64) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
