// Package rules defines the declarative matching rules consumed by the
// matchers and the registry that owns them.
//
// A rule targets one category label and is either a literal (exact
// case-insensitive token span) or a pattern (ordered per-token constraints).
package rules

import (
	"fmt"
	"iter"
	"strings"

	"github.com/clinitext/spantag/pkg/spantag/internalerr"
)

// Kind selects the predicate a constraint applies to a token.
type Kind int

const (
	// KindLower matches a token whose lowercase form equals Value.
	KindLower Kind = iota
	// KindInSet matches a token whose lowercase form is in Set.
	KindInSet
	// KindLikeNum matches a token flagged numeric-like by the tokenizer.
	KindLikeNum
)

// String returns the name of the constraint kind.
func (k Kind) String() string {
	switch k {
	case KindLower:
		return "lower"
	case KindInSet:
		return "in-set"
	case KindLikeNum:
		return "like-num"
	}
	return "unknown"
}

// Constraint is one element of a pattern. A required constraint must consume
// exactly one satisfying token; an optional constraint consumes a satisfying
// token if present and is skipped otherwise.
type Constraint struct {
	Kind     Kind
	Value    string   // KindLower
	Set      []string // KindInSet
	Optional bool
}

// Rule is a declarative matching rule. Exactly one of Literal and Pattern
// must be set. Rules are immutable once registered.
type Rule struct {
	Name     string
	Category string
	Literal  string
	Pattern  []Constraint
}

// IsLiteral reports whether the rule matches by exact text.
func (r Rule) IsLiteral() bool { return r.Literal != "" }

// LiteralWords returns the whitespace-split lowercase words of a literal
// rule, one per token the literal must align to.
func (r Rule) LiteralWords() []string {
	return strings.Fields(strings.ToLower(r.Literal))
}

// Registry owns registered rules in insertion order. Insertion order is
// significant: the resolver uses it to break ties between equally long
// matches. There is no removal operation.
//
// A registry is safe for concurrent readers once fully populated; Add calls
// must not run concurrently with matching.
type Registry struct {
	rules []Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add validates and appends rules. Duplicate literals and categories are
// permitted and all retained. If any rule is invalid the whole call fails
// with an error wrapping internalerr.ErrInvalidRule and nothing is added.
func (g *Registry) Add(rs ...Rule) error {
	normalized := make([]Rule, 0, len(rs))
	for _, r := range rs {
		nr, err := normalize(r)
		if err != nil {
			return err
		}
		normalized = append(normalized, nr)
	}
	g.rules = append(g.rules, normalized...)
	return nil
}

// All returns a lazy, restartable sequence of (registration index, rule)
// pairs in insertion order.
func (g *Registry) All() iter.Seq2[int, Rule] {
	return func(yield func(int, Rule) bool) {
		for i, r := range g.rules {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Len returns the number of registered rules.
func (g *Registry) Len() int { return len(g.rules) }

// normalize validates a rule and lowercases its matching surfaces.
func normalize(r Rule) (Rule, error) {
	if r.Category == "" {
		return Rule{}, fmt.Errorf("%w: rule %q has no category", internalerr.ErrInvalidRule, r.Name)
	}
	hasLiteral := strings.TrimSpace(r.Literal) != ""
	hasPattern := len(r.Pattern) > 0
	switch {
	case hasLiteral && hasPattern:
		return Rule{}, fmt.Errorf("%w: rule %q sets both literal and pattern", internalerr.ErrInvalidRule, r.Name)
	case !hasLiteral && !hasPattern:
		return Rule{}, fmt.Errorf("%w: rule %q has neither literal nor pattern", internalerr.ErrInvalidRule, r.Name)
	}

	if hasLiteral {
		r.Literal = strings.Join(strings.Fields(r.Literal), " ")
		r.Pattern = nil
		return r, nil
	}

	pattern := make([]Constraint, len(r.Pattern))
	for i, c := range r.Pattern {
		switch c.Kind {
		case KindLower:
			c.Value = strings.ToLower(strings.TrimSpace(c.Value))
			if c.Value == "" {
				return Rule{}, fmt.Errorf("%w: rule %q constraint %d: empty lower value", internalerr.ErrInvalidRule, r.Name, i)
			}
		case KindInSet:
			set := make([]string, 0, len(c.Set))
			for _, v := range c.Set {
				v = strings.ToLower(strings.TrimSpace(v))
				if v == "" {
					return Rule{}, fmt.Errorf("%w: rule %q constraint %d: empty set member", internalerr.ErrInvalidRule, r.Name, i)
				}
				set = append(set, v)
			}
			if len(set) == 0 {
				return Rule{}, fmt.Errorf("%w: rule %q constraint %d: empty set", internalerr.ErrInvalidRule, r.Name, i)
			}
			c.Set = set
		case KindLikeNum:
			// No parameters.
		default:
			return Rule{}, fmt.Errorf("%w: rule %q constraint %d: unknown kind %d", internalerr.ErrInvalidRule, r.Name, i, c.Kind)
		}
		pattern[i] = c
	}
	r.Literal = ""
	r.Pattern = pattern
	return r, nil
}
