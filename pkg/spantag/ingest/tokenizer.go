// Package ingest turns raw text into tokenized documents and runs them
// through the fixed tagging pipeline.
package ingest

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/clinitext/spantag/pkg/spantag/document"
)

// Tokenizer splits raw text into offset-carrying tokens.
//
// A token is a maximal run of letters, digits, hyphens, and periods, with
// leading/trailing hyphens and periods stripped, so "mellitus." matches the
// literal "mellitus" while "3.5" and "x-ray" stay single tokens. No tokens
// are dropped: every span must map back to an exact byte range of the
// source text.
type Tokenizer struct {
	numberWords map[string]struct{}
}

// NewTokenizer creates a tokenizer with the default numeric-word list.
func NewTokenizer() *Tokenizer {
	words := make(map[string]struct{}, len(defaultNumberWords))
	for _, w := range defaultNumberWords {
		words[w] = struct{}{}
	}
	return &Tokenizer{numberWords: words}
}

// defaultNumberWords are English number words flagged numeric-like, so that
// patterns such as "stage <number>" match "stage five" as well as "stage 5".
var defaultNumberWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen", "twenty", "thirty",
	"forty", "fifty", "sixty", "seventy", "eighty", "ninety", "hundred",
	"thousand", "million", "billion",
}

// AddNumberWord marks an additional word as numeric-like.
func (t *Tokenizer) AddNumberWord(word string) {
	t.numberWords[strings.ToLower(word)] = struct{}{}
}

// Tokenize splits text into tokens with byte offsets. The invariant
// text[tok.Start:tok.End] == tok.Surface holds for every token.
func (t *Tokenizer) Tokenize(text string) []document.Token {
	var tokens []document.Token
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		if tok, ok := t.newToken(text, start, end, len(tokens)); ok {
			tokens = append(tokens, tok)
		}
		start = -1
	}

	for i, r := range text {
		if isTokenRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))

	return tokens
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '.'
}

// newToken trims edge punctuation from text[start:end] and builds the token.
// Returns ok=false when nothing remains, e.g. a bare "-" or "...".
func (t *Tokenizer) newToken(text string, start, end, index int) (document.Token, bool) {
	for start < end && isEdgePunct(text[start]) {
		start++
	}
	for end > start && isEdgePunct(text[end-1]) {
		end--
	}
	if start == end {
		return document.Token{}, false
	}

	surface := text[start:end]
	lower := strings.ToLower(surface)
	return document.Token{
		Surface: surface,
		Lower:   lower,
		LikeNum: t.likeNum(lower),
		Start:   start,
		End:     end,
		Index:   index,
	}, true
}

func isEdgePunct(b byte) bool { return b == '.' || b == '-' }

// likeNum reports whether a lowercase token is numeric-like: an integer, a
// decimal, a small roman numeral, or a known number word.
func (t *Tokenizer) likeNum(lower string) bool {
	if _, ok := t.numberWords[lower]; ok {
		return true
	}
	// Leading-digit guard keeps ParseFloat from accepting "inf" and "nan".
	if lower[0] >= '0' && lower[0] <= '9' {
		if _, err := strconv.ParseFloat(lower, 64); err == nil {
			return true
		}
	}
	return isSmallRoman(lower)
}

// isSmallRoman accepts the roman numerals i through x, which show up in
// clinical staging ("Type II", "stage iv").
func isSmallRoman(s string) bool {
	switch s {
	case "i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix", "x":
		return true
	}
	return false
}
