package resolve

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/clinitext/spantag/pkg/spantag/document"
)

// fixedDoc builds a document of n single-letter tokens so candidate token
// ranges are easy to reason about.
func fixedDoc(n int) *document.Document {
	text := ""
	tokens := make([]document.Token, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			text += " "
		}
		start := len(text)
		text += "t"
		tokens[i] = document.Token{Surface: "t", Lower: "t", Start: start, End: start + 1, Index: i}
	}
	return document.New(text, tokens)
}

func cand(start, end, ruleIndex int, name string) document.Candidate {
	return document.Candidate{
		Start: start, End: end,
		Category: "PROBLEM", RuleName: name, RuleIndex: ruleIndex,
	}
}

func TestResolveLongestWins(t *testing.T) {
	doc := fixedDoc(6)
	doc.AddCandidates(
		cand(2, 3, 0, "short"),
		cand(0, 4, 1, "long"),
	)

	Resolve(doc)
	if len(doc.Entities) != 1 {
		t.Fatalf("got %d spans, want 1", len(doc.Entities))
	}
	if doc.Entities[0].RuleName != "long" {
		t.Errorf("winner = %q, want the longer match", doc.Entities[0].RuleName)
	}
	if doc.Entities[0].Start != 0 || doc.Entities[0].End != 4 {
		t.Errorf("span = [%d,%d), want [0,4)", doc.Entities[0].Start, doc.Entities[0].End)
	}
}

func TestResolveTieBreaksByRuleOrder(t *testing.T) {
	doc := fixedDoc(4)
	doc.AddCandidates(
		cand(0, 2, 5, "late"),
		cand(0, 2, 1, "early"),
	)

	Resolve(doc)
	if len(doc.Entities) != 1 {
		t.Fatalf("got %d spans, want 1", len(doc.Entities))
	}
	if doc.Entities[0].RuleName != "early" {
		t.Errorf("winner = %q, want the earliest-registered rule", doc.Entities[0].RuleName)
	}
}

func TestResolveNonOverlappingAllKept(t *testing.T) {
	doc := fixedDoc(8)
	doc.AddCandidates(
		cand(4, 6, 0, "b"),
		cand(0, 2, 1, "a"),
		cand(6, 8, 2, "c"),
	)

	Resolve(doc)
	if len(doc.Entities) != 3 {
		t.Fatalf("got %d spans, want 3", len(doc.Entities))
	}
	for i := 1; i < len(doc.Entities); i++ {
		if doc.Entities[i].Start < doc.Entities[i-1].End {
			t.Errorf("spans overlap or out of order: %+v", doc.Entities)
		}
	}
	if doc.Entities[0].RuleName != "a" {
		t.Errorf("first span = %q, want result ordered by start", doc.Entities[0].RuleName)
	}
}

func TestResolveChainedOverlaps(t *testing.T) {
	// [0,3) beats [2,5); once [2,5) is discarded, [4,6) fits again.
	doc := fixedDoc(6)
	doc.AddCandidates(
		cand(0, 3, 0, "a"),
		cand(2, 5, 1, "b"),
		cand(4, 6, 2, "c"),
	)

	Resolve(doc)
	got := make([]string, len(doc.Entities))
	for i, sp := range doc.Entities {
		got[i] = sp.RuleName
	}
	want := []string{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("accepted = %v, want %v", got, want)
	}
}

func TestResolveCharOffsets(t *testing.T) {
	doc := fixedDoc(4)
	doc.AddCandidates(cand(1, 3, 0, "r"))

	Resolve(doc)
	if len(doc.Entities) != 1 {
		t.Fatalf("got %d spans, want 1", len(doc.Entities))
	}
	sp := doc.Entities[0]
	if sp.CharStart != doc.Tokens[1].Start || sp.CharEnd != doc.Tokens[2].End {
		t.Errorf("char offsets = [%d,%d), want token-derived [%d,%d)",
			sp.CharStart, sp.CharEnd, doc.Tokens[1].Start, doc.Tokens[2].End)
	}
}

func TestResolveNoCandidates(t *testing.T) {
	doc := fixedDoc(3)
	Resolve(doc)
	if len(doc.Entities) != 0 {
		t.Errorf("got %d spans, want 0", len(doc.Entities))
	}
}

func TestResolveOverwritesEntities(t *testing.T) {
	doc := fixedDoc(4)
	doc.AddCandidates(cand(0, 2, 0, "r"))

	Resolve(doc)
	Resolve(doc)
	if len(doc.Entities) != 1 {
		t.Errorf("got %d spans after double resolve, want 1", len(doc.Entities))
	}
}

// Property tests over generated candidate sets.

func genCandidates(docLen int) gopter.Gen {
	genOne := gopter.CombineGens(
		gen.IntRange(0, docLen-1),
		gen.IntRange(1, 4),
		gen.IntRange(0, 9),
	).Map(func(vs []interface{}) document.Candidate {
		start := vs[0].(int)
		length := vs[1].(int)
		end := start + length
		if end > docLen {
			end = docLen
		}
		return cand(start, end, vs[2].(int), "gen")
	})
	return gen.SliceOf(genOne)
}

func TestResolveProperties(t *testing.T) {
	const docLen = 12

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("resolved spans never overlap", prop.ForAll(
		func(cs []document.Candidate) bool {
			doc := fixedDoc(docLen)
			doc.AddCandidates(cs...)
			Resolve(doc)

			used := make([]bool, docLen)
			for _, sp := range doc.Entities {
				for i := sp.Start; i < sp.End; i++ {
					if used[i] {
						return false
					}
					used[i] = true
				}
			}
			return true
		},
		genCandidates(docLen),
	))

	properties.Property("resolution is deterministic and idempotent", prop.ForAll(
		func(cs []document.Candidate) bool {
			doc := fixedDoc(docLen)
			doc.AddCandidates(cs...)
			Resolve(doc)
			first := append([]document.Span(nil), doc.Entities...)
			Resolve(doc)
			return reflect.DeepEqual(first, doc.Entities)
		},
		genCandidates(docLen),
	))

	properties.Property("results are ordered by start offset", prop.ForAll(
		func(cs []document.Candidate) bool {
			doc := fixedDoc(docLen)
			doc.AddCandidates(cs...)
			Resolve(doc)
			for i := 1; i < len(doc.Entities); i++ {
				if doc.Entities[i].Start < doc.Entities[i-1].Start {
					return false
				}
			}
			return true
		},
		genCandidates(docLen),
	))

	properties.TestingRun(t)
}
