// Package lexicon stores clinical vocabulary mappings: abbreviations and
// spelling variants grouped under a canonical form (chf ↔ congestive heart
// failure, htn ↔ hypertension).
//
// The tagger uses a lexicon to expand literal rules: one registered rule per
// known variant, so "CHF" and "congestive heart failure" tag alike.
package lexicon

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon maps variants to canonical forms and back. All lookups are
// case-insensitive.
type Lexicon struct {
	// canonical -> all variants (including canonical itself)
	groups map[string][]string

	// variant -> canonical
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		groups:       make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadFromYAML loads variant groups from a YAML file.
//
// Expected format:
//
//	groups:
//	  - canonical: congestive heart failure
//	    variants: [chf, congestive heart failure (chf)]
//	  - canonical: hypertension
//	    variants: [htn, high blood pressure]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Groups []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"groups"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	for _, g := range config.Groups {
		lex.AddGroup(g.Canonical, g.Variants)
	}
	return lex, nil
}

// AddGroup adds a variant group under a canonical form. The canonical form
// is always the first entry of the group. Re-adding a canonical replaces
// its previous group.
func (l *Lexicon) AddGroup(canonical string, variants []string) {
	canonical = strings.ToLower(strings.TrimSpace(canonical))
	if canonical == "" {
		return
	}

	if old, ok := l.groups[canonical]; ok {
		for _, v := range old {
			delete(l.reverseIndex, v)
		}
	}

	normalized := []string{canonical}
	seen := map[string]bool{canonical: true}
	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		normalized = append(normalized, v)
		seen[v] = true
	}

	l.groups[canonical] = normalized
	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// Normalize returns the canonical form of a term, or the term itself when
// it is not in the lexicon.
func (l *Lexicon) Normalize(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	if canonical, ok := l.reverseIndex[term]; ok {
		return canonical
	}
	return term
}

// Variants returns all known variants of a term, canonical form first. An
// unknown term returns a slice containing only the term itself.
func (l *Lexicon) Variants(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if canonical, ok := l.reverseIndex[term]; ok {
		return l.groups[canonical]
	}
	return []string{term}
}

// Has reports whether the term belongs to any variant group.
func (l *Lexicon) Has(term string) bool {
	_, ok := l.reverseIndex[strings.ToLower(strings.TrimSpace(term))]
	return ok
}

// Len returns the number of variant groups.
func (l *Lexicon) Len() int { return len(l.groups) }
