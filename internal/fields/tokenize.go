package fields

import (
	"strings"
	"unicode"

	"github.com/matsen/refzone/internal/textnorm"
)

// Tokens holds the query tokens of each canonical field, deduplicated and in
// first-seen order.
type Tokens map[Field][]string

// Count returns the total number of tokens across all fields.
func (t Tokens) Count() int {
	n := 0
	for _, toks := range t {
		n += len(toks)
	}
	return n
}

// Empty reports whether no field kept a usable token.
func (t Tokens) Empty() bool {
	return t.Count() == 0
}

// Fields returns the fields holding tokens in canonical order.
func (t Tokens) Fields() []Field {
	var out []Field
	for _, f := range Ordered {
		if len(t[f]) > 0 {
			out = append(out, f)
		}
	}
	return out
}

const (
	shortTokenLen = 2
	defaultMinLen = 4
)

// journalExceptions are single-glyph tokens kept in journal titles: "J" is
// the usual abbreviation of "Journal" and "]" its common OCR misread.
var journalExceptions = map[string]bool{"j": true, "J": true, "]": true}

// Tokenize splits every canonical value into tokens using the policy of its
// field. Numeric fields keep the longest digit run of each token, identifier
// fields keep whole values, title, author and journal fields accept tokens of
// two runes or more and everything else requires four.
func Tokenize(c Canonical) Tokens {
	out := make(Tokens)
	for _, f := range c.Fields() {
		seen := make(map[string]bool)
		for _, v := range c[f] {
			for _, tok := range fieldTokens(f, textnorm.Normalize(v)) {
				if seen[tok] {
					continue
				}
				seen[tok] = true
				out[f] = append(out[f], tok)
			}
		}
	}
	return out
}

func fieldTokens(f Field, value string) []string {
	var out []string
	switch {
	case f.IsNumeric():
		for _, w := range textnorm.Words(value) {
			if d := longestDigitRun(w); d != "" {
				out = append(out, d)
			}
		}
	case f.IsIdentifier():
		for _, w := range strings.Fields(value) {
			if len([]rune(w)) >= defaultMinLen {
				out = append(out, w)
			}
		}
	case f == FieldHostTitle:
		for _, w := range journalWords(value) {
			if journalExceptions[w] || len([]rune(w)) >= shortTokenLen {
				out = append(out, w)
			}
		}
	case f == FieldTitle || f == FieldAuthorName:
		for _, w := range textnorm.Words(value) {
			if len([]rune(w)) >= shortTokenLen {
				out = append(out, w)
			}
		}
	default:
		for _, w := range textnorm.Words(value) {
			if len([]rune(w)) >= defaultMinLen {
				out = append(out, w)
			}
		}
	}
	return out
}

// journalWords splits on whitespace and commas, keeping trailing periods and
// the "]" misread so abbreviations can be recognized.
func journalWords(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	var out []string
	for _, p := range parts {
		if p == "]" {
			out = append(out, p)
			continue
		}
		p = strings.TrimFunc(p, func(r rune) bool {
			return r != '.' && !textnorm.IsWordRune(r)
		})
		p = strings.TrimLeft(p, ".")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func longestDigitRun(s string) string {
	best, start := "", -1
	for i, r := range s + "x" {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if run := s[start:i]; len(run) > len(best) {
				best = run
			}
			start = -1
		}
	}
	return best
}
