// Package document defines the value types shared by the tagging pipeline:
// tokens produced by the tokenizer, match candidates produced by the
// matchers, and the final labeled spans attached to a document.
package document

// Token is a single unit of tokenized text.
// Tokens are immutable once produced; Start/End are byte offsets into the
// source text such that Text[Start:End] == Surface.
type Token struct {
	Surface string // original text slice
	Lower   string // lowercase form used for matching
	LikeNum bool   // token looks like a number ("3", "2.5", "five")
	Start   int    // byte offset of the first byte, inclusive
	End     int    // byte offset past the last byte, exclusive
	Index   int    // position within the document's token sequence
}

// Candidate is a provisional, possibly-overlapping match produced by a
// matcher before overlap resolution.
type Candidate struct {
	Start     int    // token offset, inclusive
	End       int    // token offset, exclusive
	Category  string // target label, e.g. "PROBLEM"
	RuleName  string
	RuleIndex int // registration order of the producing rule
	Text      string
}

// Span is a final labeled token range. Spans on a resolved document never
// overlap in token range.
type Span struct {
	Start     int // token offset, inclusive
	End       int // token offset, exclusive
	Category  string
	RuleName  string
	Text      string
	CharStart int // byte offset of the span's first token
	CharEnd   int // byte offset past the span's last token
}

// Document holds the source text, its token sequence, the working candidate
// set accumulated by matcher stages, and the final resolved spans.
type Document struct {
	Text       string
	Tokens     []Token
	Candidates []Candidate
	Entities   []Span
}

// New creates a document from source text and its token sequence.
func New(text string, tokens []Token) *Document {
	return &Document{Text: text, Tokens: tokens}
}

// Len returns the number of tokens.
func (d *Document) Len() int { return len(d.Tokens) }

// Slice returns the source text covered by the token range [start, end).
// Returns "" for an empty or out-of-range interval.
func (d *Document) Slice(start, end int) string {
	if start < 0 || end > len(d.Tokens) || start >= end {
		return ""
	}
	return d.Text[d.Tokens[start].Start:d.Tokens[end-1].End]
}

// AddCandidates appends candidates to the working set.
func (d *Document) AddCandidates(cs ...Candidate) {
	d.Candidates = append(d.Candidates, cs...)
}
