// Package config loads rule and lexicon files and assembles tagger
// components from them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clinitext/spantag/pkg/spantag/internalerr"
	"github.com/clinitext/spantag/pkg/spantag/rules"
)

// RuleFile is the on-disk YAML representation of a rule set.
//
//	rules:
//	  - name: chf
//	    category: PROBLEM
//	    literal: CHF
//	  - name: ckd-stage
//	    category: PROBLEM
//	    pattern:
//	      - lower: ckd
//	      - lower: stage
//	      - like_num: true
type RuleFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

// RuleSpec is one rule entry. Exactly one of Literal and Pattern must be set.
type RuleSpec struct {
	Name     string           `yaml:"name"`
	Category string           `yaml:"category"`
	Literal  string           `yaml:"literal,omitempty"`
	Pattern  []ConstraintSpec `yaml:"pattern,omitempty"`
}

// ConstraintSpec is one pattern element. Exactly one of Lower, In, and
// LikeNum selects the predicate; Optional marks zero-or-one repetition.
type ConstraintSpec struct {
	Lower    string   `yaml:"lower,omitempty"`
	In       []string `yaml:"in,omitempty"`
	LikeNum  bool     `yaml:"like_num,omitempty"`
	Optional bool     `yaml:"optional,omitempty"`
}

// LoadRules reads a YAML rule file and converts it to registry rules.
func LoadRules(path string) ([]rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	out := make([]rules.Rule, 0, len(file.Rules))
	for _, spec := range file.Rules {
		r, err := spec.toRule()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s RuleSpec) toRule() (rules.Rule, error) {
	r := rules.Rule{
		Name:     s.Name,
		Category: s.Category,
		Literal:  s.Literal,
	}
	for i, c := range s.Pattern {
		constraint, err := c.toConstraint()
		if err != nil {
			return rules.Rule{}, fmt.Errorf("rule %q constraint %d: %w", s.Name, i, err)
		}
		r.Pattern = append(r.Pattern, constraint)
	}
	return r, nil
}

func (c ConstraintSpec) toConstraint() (rules.Constraint, error) {
	set := 0
	if c.Lower != "" {
		set++
	}
	if len(c.In) > 0 {
		set++
	}
	if c.LikeNum {
		set++
	}
	if set != 1 {
		return rules.Constraint{}, fmt.Errorf("%w: exactly one of lower, in, like_num must be set", internalerr.ErrInvalidConfig)
	}

	out := rules.Constraint{Optional: c.Optional}
	switch {
	case c.Lower != "":
		out.Kind = rules.KindLower
		out.Value = c.Lower
	case len(c.In) > 0:
		out.Kind = rules.KindInSet
		out.Set = c.In
	default:
		out.Kind = rules.KindLikeNum
	}
	return out, nil
}
