// Package textnorm canonicalizes text extracted from documents and bibliographic
// records so that both sides can be compared despite typographic and OCR noise.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ligatures expands presentation-form ligatures to their letter sequences.
var ligatures = strings.NewReplacer(
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬀ", "ff",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "st",
	"ﬆ", "st",
	"æ", "ae",
	"Æ", "AE",
	"œ", "oe",
	"Œ", "OE",
	"ĳ", "ij",
	"Ĳ", "IJ",
)

// punctuation unifies dash and quote variants.
var punctuation = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
	"﹘", "-",
	"﹣", "-",
	"－", "-",
	"‘", "'",
	"’", "'",
	"‚", "'",
	"‛", "'",
	"′", "'",
	"‹", "'",
	"›", "'",
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‟", `"`,
	"″", `"`,
	"«", `"`,
	"»", `"`,
)

// hyphenBreak matches a word-final hyphen followed by a line boundary.
var hyphenBreak = regexp.MustCompile(`([\p{L}\p{N}])-[ \t]*(?:\r\n|\n|\r)\s*`)

// confusables collapses glyphs OCR engines commonly swap. Multi-rune patterns
// come first so they win over the single-rune classes at the same position.
var confusables = strings.NewReplacer(
	"rn", "m",
	"nn", "m",
	"vv", "w",
	"O", "0",
	"o", "0",
	"Q", "0",
	"1", "I",
	"l", "I",
	"i", "I",
	"|", "I",
	"!", "I",
	"5", "S",
	"$", "S",
	"8", "B",
	"ß", "B",
)

// stripMarks removes combining diacritics.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds whitespace and control characters, unifies dashes and quotes,
// joins hyphenated line breaks and expands ligatures.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := ligatures.Replace(text)
	s = norm.NFC.String(s)
	s = punctuation.Replace(s)
	s = hyphenBreak.ReplaceAllString(s, "$1")
	s = strings.Map(foldRune, s)
	return strings.Join(strings.Fields(s), " ")
}

// foldRune maps control characters and space variants to a plain space and
// drops invisible format characters such as the soft hyphen.
func foldRune(r rune) rune {
	switch r {
	case '\u00ad', '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return -1
	}
	if unicode.IsControl(r) || unicode.IsSpace(r) || unicode.Is(unicode.Zs, r) {
		return ' '
	}
	return r
}

// OCRSignature reduces text to a form where visually confusable glyphs share a
// single representative. It is idempotent.
func OCRSignature(text string) string {
	s := Normalize(text)
	if s == "" {
		return ""
	}
	stripped, _, err := transform.String(stripMarks, s)
	if err == nil {
		s = stripped
	}
	return confusables.Replace(s)
}

// SoftCompare reports whether a and b denote the same string modulo
// typography, case and, for longer strings, OCR confusions.
func SoftCompare(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if reduce(na) == reduce(nb) {
		return true
	}
	if len([]rune(a)) <= 5 || len([]rune(b)) <= 5 {
		return false
	}
	return reduce(OCRSignature(a)) == reduce(OCRSignature(b))
}

func reduce(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "-", ""))
}

// IsWordRune reports whether r belongs to a word token.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Words splits text into word tokens on every non-word rune.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return !IsWordRune(r) })
}

// WordSet returns the distinct word tokens of text.
func WordSet(text string) map[string]struct{} {
	words := Words(text)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
