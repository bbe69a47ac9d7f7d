// Package query renders the tokenized fields of a record as a search query
// in Lucene query-string syntax.
package query

import (
	"strings"

	"github.com/matsen/refzone/internal/fields"
)

// Params tunes query rendering.
type Params struct {
	// JournalWildcardMax is the token count below which journal titles are
	// treated as abbreviations and expanded with wildcards.
	JournalWildcardMax int
	// Grouped renders numeric fields as required clauses and text fields
	// as optional ones.
	Grouped bool
}

// DefaultParams returns the defaults.
func DefaultParams() Params {
	return Params{JournalWildcardMax: 8}
}

// Build returns the query for toks, or "" when there is nothing to search.
func Build(toks fields.Tokens, p Params) string {
	var must, should []string
	for _, f := range toks.Fields() {
		frag := fragment(f, toks[f], p)
		if frag == "" {
			continue
		}
		if p.Grouped && f.IsNumeric() {
			must = append(must, frag)
		} else {
			should = append(should, frag)
		}
	}

	if !p.Grouped {
		return strings.Join(should, " ")
	}
	switch {
	case len(must) == 0:
		return strings.Join(should, " ")
	case len(should) == 0:
		return strings.Join(must, " AND ")
	default:
		return "(" + strings.Join(must, " AND ") + ") AND (" + strings.Join(should, " ") + ")"
	}
}

func fragment(f fields.Field, toks []string, p Params) string {
	if len(toks) == 0 {
		return ""
	}
	terms := make([]string, 0, len(toks))
	switch {
	case f == fields.FieldNull:
		for _, t := range toks {
			terms = append(terms, quote(t))
		}
		return strings.Join(terms, " ")
	case f == fields.FieldHostTitle && len(toks) < p.JournalWildcardMax:
		for _, t := range toks {
			terms = append(terms, abbreviation(t))
		}
	case f.IsIdentifier():
		for _, t := range toks {
			terms = append(terms, quote(t))
		}
	default:
		for _, t := range toks {
			terms = append(terms, escape(t))
		}
	}

	if len(terms) == 1 {
		return f.String() + ":" + terms[0]
	}
	return f.String() + ":(" + strings.Join(terms, " ") + ")"
}

// journalMarks are the renderings of "J" for "Journal", including the
// usual OCR misread of J as a bracket.
var journalMarks = map[string]bool{
	"j": true, "J": true, "]": true,
	"j.": true, "J.": true, "].": true,
}

// abbreviation expands an abbreviated journal word into a prefix query.
func abbreviation(tok string) string {
	if journalMarks[tok] {
		return "journal"
	}
	if strings.HasSuffix(tok, ".") {
		return escape(strings.TrimSuffix(tok, ".")) + "*"
	}
	return escape(tok) + "*"
}

const specials = `+-&|!(){}[]^"~*?:\/`

// escape backslash-escapes query-syntax characters.
func escape(s string) string {
	if !strings.ContainsAny(s, specials) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
