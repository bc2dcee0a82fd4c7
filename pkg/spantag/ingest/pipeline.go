package ingest

import (
	"github.com/clinitext/spantag/pkg/spantag/document"
	"github.com/clinitext/spantag/pkg/spantag/match"
	"github.com/clinitext/spantag/pkg/spantag/resolve"
	"github.com/clinitext/spantag/pkg/spantag/rules"
)

// Stage is one named processing step of the tagging pipeline.
type Stage interface {
	Name() string
	Process(doc *document.Document) *document.Document
}

// Pipeline orchestrates the full tagging flow:
// text → tokenization → literal matching → pattern matching → overlap resolution
//
// The stage list is fixed and explicitly ordered; there is no runtime
// registration of stages by name. The registry must be fully populated
// before Process is called and must not change while documents are being
// processed.
type Pipeline struct {
	tokenizer *Tokenizer
	stages    []Stage
}

// NewPipeline creates a tagging pipeline over the given registry.
func NewPipeline(tokenizer *Tokenizer, registry *rules.Registry) *Pipeline {
	return &Pipeline{
		tokenizer: tokenizer,
		stages: []Stage{
			literalStage{registry: registry},
			patternStage{registry: registry},
			resolveStage{},
		},
	}
}

// Process tokenizes text and runs it through every stage in order.
func (p *Pipeline) Process(text string) *document.Document {
	doc := document.New(text, p.tokenizer.Tokenize(text))
	for _, s := range p.stages {
		doc = s.Process(doc)
	}
	return doc
}

// StageNames returns the ordered names of the pipeline's stages.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

type literalStage struct {
	registry *rules.Registry
}

func (s literalStage) Name() string { return "literal-matcher" }

func (s literalStage) Process(doc *document.Document) *document.Document {
	if doc.Len() == 0 {
		return doc
	}
	for i, r := range s.registry.All() {
		if !r.IsLiteral() {
			continue
		}
		doc.AddCandidates(match.Literal(doc, i, r)...)
	}
	return doc
}

type patternStage struct {
	registry *rules.Registry
}

func (s patternStage) Name() string { return "pattern-matcher" }

func (s patternStage) Process(doc *document.Document) *document.Document {
	if doc.Len() == 0 {
		return doc
	}
	for i, r := range s.registry.All() {
		if r.IsLiteral() {
			continue
		}
		doc.AddCandidates(match.Pattern(doc, i, r)...)
	}
	return doc
}

type resolveStage struct{}

func (resolveStage) Name() string { return "span-resolver" }

func (resolveStage) Process(doc *document.Document) *document.Document {
	return resolve.Resolve(doc)
}
