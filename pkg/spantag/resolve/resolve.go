// Package resolve turns the working candidate set of a document into its
// final non-overlapping span collection.
package resolve

import (
	"sort"

	"github.com/clinitext/spantag/pkg/spantag/document"
)

// Resolve selects the final spans from the document's candidates and
// replaces its Entities collection.
//
// Candidates are ordered by (start ascending, length descending, rule
// registration order ascending) and swept left to right, accepting a
// candidate only if it does not overlap an already-accepted span. Longest
// match wins; the earliest-registered rule breaks ties. The result is
// ordered by start offset ascending.
func Resolve(doc *document.Document) *document.Document {
	if len(doc.Candidates) == 0 {
		doc.Entities = nil
		return doc
	}

	cs := make([]document.Candidate, len(doc.Candidates))
	copy(cs, doc.Candidates)

	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Start != cs[j].Start {
			return cs[i].Start < cs[j].Start
		}
		li, lj := cs[i].End-cs[i].Start, cs[j].End-cs[j].Start
		if li != lj {
			return li > lj
		}
		return cs[i].RuleIndex < cs[j].RuleIndex
	})

	var spans []document.Span
	maxEnd := 0
	for _, c := range cs {
		// Accepted spans are ordered by start, so a candidate overlaps one
		// exactly when it starts before the furthest accepted end.
		if len(spans) > 0 && c.Start < maxEnd {
			continue
		}
		spans = append(spans, document.Span{
			Start:     c.Start,
			End:       c.End,
			Category:  c.Category,
			RuleName:  c.RuleName,
			Text:      c.Text,
			CharStart: doc.Tokens[c.Start].Start,
			CharEnd:   doc.Tokens[c.End-1].End,
		})
		maxEnd = c.End
	}

	doc.Entities = spans
	return doc
}
