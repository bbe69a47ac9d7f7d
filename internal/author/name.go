// Package author parses personal names as they appear in search hits.
package author

import (
	"strings"

	"github.com/matsen/refzone/internal/textnorm"
)

// Name is a parsed personal name.
type Name struct {
	First string
	Last  string
}

// Parse splits a display name into given names and surname. The surname is
// the last whitespace-delimited token ("Paul R. Milgrom" gives "Milgrom").
// Some services emit inverted names; when a comma is present the surname is
// the text before it ("Milgrom, Paul R." also gives "Milgrom").
func Parse(display string) Name {
	display = strings.Join(strings.Fields(display), " ")
	if last, first, ok := strings.Cut(display, ","); ok && strings.TrimSpace(last) != "" {
		return Name{First: strings.TrimSpace(first), Last: strings.TrimSpace(last)}
	}
	sp := strings.LastIndexByte(display, ' ')
	return Name{First: display[:max(sp, 0)], Last: display[sp+1:]}
}

// SameSurname reports whether surname matches the surname of the display
// name, tolerating OCR confusions.
func SameSurname(surname, display string) bool {
	last := Parse(display).Last
	if last == "" {
		return false
	}
	return textnorm.SoftCompare(surname, last)
}
