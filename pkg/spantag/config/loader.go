package config

import (
	"fmt"
	"strings"

	"github.com/clinitext/spantag/pkg/spantag/ingest"
	"github.com/clinitext/spantag/pkg/spantag/lexicon"
	"github.com/clinitext/spantag/pkg/spantag/rules"
)

// Loader loads configuration files and constructs tagger components.
type Loader struct {
	RulesPath   string
	LexiconPath string
}

// Components holds all loaded configuration components.
type Components struct {
	Registry  *rules.Registry
	Lexicon   *lexicon.Lexicon
	Tokenizer *ingest.Tokenizer
}

// Load reads the configuration files and returns initialized components.
// When a lexicon is present, every literal rule is expanded: each known
// variant of the literal is registered as its own rule, named
// "<name>/<variant>", immediately after the base rule so resolver
// tie-breaking stays anchored to the base rule's position.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{
		Lexicon:   lexicon.New(),
		Tokenizer: ingest.NewTokenizer(),
	}

	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	}

	comp.Registry = rules.NewRegistry()
	if l.RulesPath != "" {
		loaded, err := LoadRules(l.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		if err := comp.Registry.Add(ExpandLiterals(comp.Lexicon, loaded)...); err != nil {
			return nil, fmt.Errorf("register rules: %w", err)
		}
	}

	return comp, nil
}

// ExpandLiterals returns the rule list with lexicon variants of each literal
// rule inserted after it. Pattern rules and literals without variants pass
// through unchanged.
func ExpandLiterals(lex *lexicon.Lexicon, in []rules.Rule) []rules.Rule {
	if lex == nil || lex.Len() == 0 {
		return in
	}

	var out []rules.Rule
	for _, r := range in {
		out = append(out, r)
		if !r.IsLiteral() || !lex.Has(r.Literal) {
			continue
		}
		own := normalizeSpace(r.Literal)
		for _, variant := range lex.Variants(r.Literal) {
			if variant == own {
				continue
			}
			out = append(out, rules.Rule{
				Name:     r.Name + "/" + variant,
				Category: r.Category,
				Literal:  variant,
			})
		}
	}
	return out
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
