// Package spantag is a rule-based span tagger for short clinical text
// snippets. Declarative rules — exact literals and token-constraint
// patterns — are matched against tokenized documents, overlapping matches
// are resolved longest-first, and the resulting labeled spans can be
// persisted to a store.
package spantag

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/clinitext/spantag/pkg/spantag/document"
	"github.com/clinitext/spantag/pkg/spantag/ingest"
	"github.com/clinitext/spantag/pkg/spantag/internalerr"
	"github.com/clinitext/spantag/pkg/spantag/rules"
	"github.com/clinitext/spantag/pkg/spantag/store"
)

// Tagger is the main tagging engine facade.
//
// Concurrent Tag/TagBatch/Ingest calls are safe once the registry is fully
// populated; rule registration must not run concurrently with tagging.
type Tagger struct {
	registry  *rules.Registry
	tokenizer *ingest.Tokenizer
	pipeline  *ingest.Pipeline
	store     store.Store

	mu      sync.Mutex // guards entropy
	entropy *ulid.MonotonicEntropy
}

// Options configures a Tagger instance.
type Options struct {
	Registry  *rules.Registry   // required for useful output; empty registry tags nothing
	Tokenizer *ingest.Tokenizer // optional; defaults to ingest.NewTokenizer()
	Store     store.Store       // optional; required only for Ingest
}

// New creates a Tagger with the given dependencies.
func New(opts Options) *Tagger {
	registry := opts.Registry
	if registry == nil {
		registry = rules.NewRegistry()
	}
	tokenizer := opts.Tokenizer
	if tokenizer == nil {
		tokenizer = ingest.NewTokenizer()
	}
	return &Tagger{
		registry:  registry,
		tokenizer: tokenizer,
		pipeline:  ingest.NewPipeline(tokenizer, registry),
		store:     opts.Store,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Close cleanly shuts down the Tagger instance.
func (t *Tagger) Close() error {
	if t.store == nil {
		return nil
	}
	return t.store.Close()
}

// Registry returns the tagger's rule registry.
func (t *Tagger) Registry() *rules.Registry { return t.registry }

// Tag tokenizes text and runs the full tagging pipeline. A zero-token
// document yields zero spans, not an error.
func (t *Tagger) Tag(text string) (*document.Document, error) {
	return t.pipeline.Process(text), nil
}

// Result is one entry of a batch tagging run.
type Result struct {
	Doc *document.Document
	Err error
}

// TagBatch tags each text independently. One document's failure never
// aborts the rest of the batch.
func (t *Tagger) TagBatch(texts []string) []Result {
	out := make([]Result, len(texts))
	for i, text := range texts {
		doc, err := t.Tag(text)
		out[i] = Result{Doc: doc, Err: err}
	}
	return out
}

// Ingest tags text and persists the tagged document under a fresh ULID.
func (t *Tagger) Ingest(ctx context.Context, name, text string) (store.Doc, error) {
	if t.store == nil {
		return store.Doc{}, fmt.Errorf("ingest: %w", internalerr.ErrStoreUnavailable)
	}

	doc, err := t.Tag(text)
	if err != nil {
		return store.Doc{}, err
	}

	stored := store.Doc{
		ID:       t.newID(),
		Name:     name,
		Text:     text,
		TaggedAt: time.Now().UTC(),
		Spans:    toRecords(doc.Entities),
	}
	if err := t.store.SaveDoc(ctx, stored); err != nil {
		return store.Doc{}, err
	}
	return stored, nil
}

func (t *Tagger) newID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ulid.MustNew(ulid.Now(), t.entropy).String()
}

func toRecords(spans []document.Span) []store.SpanRecord {
	if len(spans) == 0 {
		return nil
	}
	out := make([]store.SpanRecord, len(spans))
	for i, sp := range spans {
		out[i] = store.SpanRecord{
			Category:   sp.Category,
			RuleName:   sp.RuleName,
			Text:       sp.Text,
			TokenStart: sp.Start,
			TokenEnd:   sp.End,
			CharStart:  sp.CharStart,
			CharEnd:    sp.CharEnd,
		}
	}
	return out
}
