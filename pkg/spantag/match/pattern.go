package match

import (
	"github.com/clinitext/spantag/pkg/spantag/document"
	"github.com/clinitext/spantag/pkg/spantag/rules"
)

// Pattern aligns a pattern rule at every token position of the document and
// returns a candidate for each successful alignment.
//
// Alignment is a single left-to-right pass. A required constraint must
// consume exactly one satisfying token; an optional constraint consumes the
// current token if it satisfies the predicate and is skipped otherwise.
// Optional consumption is greedy and never backtracks: once an optional
// constraint has consumed a token, the skip branch is not explored even if
// the overall alignment later fails.
func Pattern(doc *document.Document, ruleIndex int, r rules.Rule) []document.Candidate {
	if len(r.Pattern) == 0 {
		return nil
	}

	var out []document.Candidate
	for i := 0; i < len(doc.Tokens); i++ {
		end, ok := alignPattern(doc.Tokens, i, r.Pattern)
		if !ok || end == i {
			// end == i: every constraint was optional and none consumed a
			// token; an empty span is not a match.
			continue
		}
		out = append(out, document.Candidate{
			Start:     i,
			End:       end,
			Category:  r.Category,
			RuleName:  r.Name,
			RuleIndex: ruleIndex,
			Text:      doc.Slice(i, end),
		})
	}
	return out
}

// alignPattern attempts to satisfy every constraint starting at token start.
// On success it returns the exclusive end of the consumed range.
func alignPattern(tokens []document.Token, start int, pattern []rules.Constraint) (int, bool) {
	j := start
	for _, c := range pattern {
		if j < len(tokens) && satisfies(c, tokens[j]) {
			j++
			continue
		}
		if c.Optional {
			continue
		}
		return 0, false
	}
	return j, true
}

func satisfies(c rules.Constraint, tok document.Token) bool {
	switch c.Kind {
	case rules.KindLower:
		return tok.Lower == c.Value
	case rules.KindInSet:
		for _, v := range c.Set {
			if tok.Lower == v {
				return true
			}
		}
		return false
	case rules.KindLikeNum:
		return tok.LikeNum
	}
	return false
}
