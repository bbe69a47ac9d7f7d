package fields

import (
	"strings"

	"github.com/matsen/refzone/internal/tei"
	"github.com/matsen/refzone/internal/textnorm"
	"go.uber.org/zap"
)

// Derived is everything computed from a record once, at load time. It is
// never updated afterwards.
type Derived struct {
	Fields    FieldMap
	Canonical Canonical
	Tokens    Tokens
	// Text is the normalized extracted text of the record, attribute values
	// such as dates and page ranges included.
	Text string
	// Words is the word set of Text.
	Words map[string]struct{}
	// HasAnalytic reports whether the record has article-level data.
	HasAnalytic bool
}

// Derive extracts, remaps and tokenizes a record. An empty token set is
// logged; the caller decides what to do with it.
func Derive(record *tei.Node, log *zap.Logger) Derived {
	if log == nil {
		log = zap.NewNop()
	}
	fm := Extract(record, log)
	canon := ToCanonical(fm, log)
	toks := Tokenize(canon)
	if toks.Empty() {
		log.Warn("record has no usable tokens", zap.Int("paths", fm.Len()))
	}

	d := Derived{
		Fields:    fm,
		Canonical: canon,
		Tokens:    toks,
	}
	d.Text = textnorm.Normalize(fm.ExtractedText())
	if record != nil {
		d.HasAnalytic = record.Child("analytic") != nil
	}
	d.Words = textnorm.WordSet(d.Text)
	return d
}

// ExtractedText joins every recorded value of the FieldMap.
func (m FieldMap) ExtractedText() string {
	var parts []string
	for _, p := range m.paths {
		parts = append(parts, m.values[p]...)
	}
	return strings.Join(parts, " ")
}
