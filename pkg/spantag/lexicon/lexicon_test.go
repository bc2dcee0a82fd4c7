package lexicon

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestAddGroupAndNormalize(t *testing.T) {
	lex := New()
	lex.AddGroup("congestive heart failure", []string{"CHF", "chf exacerbation"})

	if got := lex.Normalize("CHF"); got != "congestive heart failure" {
		t.Errorf("Normalize(CHF) = %q, want canonical", got)
	}
	if got := lex.Normalize("unknown"); got != "unknown" {
		t.Errorf("Normalize(unknown) = %q, want passthrough", got)
	}
}

func TestVariantsCanonicalFirst(t *testing.T) {
	lex := New()
	lex.AddGroup("hypertension", []string{"HTN", "high blood pressure"})

	want := []string{"hypertension", "htn", "high blood pressure"}
	if got := lex.Variants("htn"); !reflect.DeepEqual(got, want) {
		t.Errorf("Variants(htn) = %v, want %v", got, want)
	}
	if got := lex.Variants("hypertension"); !reflect.DeepEqual(got, want) {
		t.Errorf("Variants(hypertension) = %v, want %v", got, want)
	}
	if got := lex.Variants("nope"); !reflect.DeepEqual(got, []string{"nope"}) {
		t.Errorf("Variants(nope) = %v, want just the term", got)
	}
}

func TestAddGroupReplaces(t *testing.T) {
	lex := New()
	lex.AddGroup("chf", []string{"congestive heart failure"})
	lex.AddGroup("chf", []string{"heart failure"})

	if lex.Has("congestive heart failure") {
		t.Error("old variant should be dropped after group replacement")
	}
	if !lex.Has("heart failure") {
		t.Error("new variant should be present")
	}
	if lex.Len() != 1 {
		t.Errorf("Len() = %d, want 1", lex.Len())
	}
}

func TestAddGroupDeduplicatesAndSkipsEmpty(t *testing.T) {
	lex := New()
	lex.AddGroup("htn", []string{"HTN", " ", "htn", "high blood pressure"})

	want := []string{"htn", "high blood pressure"}
	if got := lex.Variants("htn"); !reflect.DeepEqual(got, want) {
		t.Errorf("Variants(htn) = %v, want %v", got, want)
	}
}

func TestHasCaseInsensitive(t *testing.T) {
	lex := New()
	lex.AddGroup("chf", []string{"Congestive Heart Failure"})

	if !lex.Has("CONGESTIVE HEART FAILURE") {
		t.Error("Has should be case-insensitive")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `groups:
  - canonical: congestive heart failure
    variants: [chf]
  - canonical: hypertension
    variants: [htn, high blood pressure]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	if lex.Len() != 2 {
		t.Errorf("Len() = %d, want 2", lex.Len())
	}
	if got := lex.Normalize("htn"); got != "hypertension" {
		t.Errorf("Normalize(htn) = %q, want hypertension", got)
	}
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromYAMLMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("groups: [this is: not: valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromYAML(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
