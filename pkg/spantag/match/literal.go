// Package match evaluates registered rules against a tokenized document,
// producing provisional candidates for the resolver.
package match

import (
	"strings"

	"github.com/clinitext/spantag/pkg/spantag/document"
	"github.com/clinitext/spantag/pkg/spantag/rules"
)

// Literal finds every occurrence of a literal rule in the document.
//
// Matching is case-insensitive but boundary-sensitive: each word of the
// literal must align to a whole token, and for multi-word literals the text
// between consecutive tokens must be whitespace only. A literal never
// matches inside a larger token ("CHF" does not match "CHFX").
func Literal(doc *document.Document, ruleIndex int, r rules.Rule) []document.Candidate {
	words := r.LiteralWords()
	if len(words) == 0 || len(doc.Tokens) < len(words) {
		return nil
	}

	var out []document.Candidate
	for i := 0; i+len(words) <= len(doc.Tokens); i++ {
		if !alignsAt(doc, i, words) {
			continue
		}
		end := i + len(words)
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

func alignsAt(doc *document.Document, start int, words []string) bool {
	for k, w := range words {
		tok := doc.Tokens[start+k]
		if tok.Lower != w {
			return false
		}
		if k > 0 {
			// Only whitespace may separate the tokens of a multi-word
			// literal; a comma or other punctuation breaks the span.
			prev := doc.Tokens[start+k-1]
			between := doc.Text[prev.End:tok.Start]
			if strings.TrimSpace(between) != "" {
				return false
			}
		}
	}
	return true
}
