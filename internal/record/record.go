// Package record loads the structured records of a TEI document and derives
// their comparable fields once.
package record

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matsen/refzone/internal/fields"
	"github.com/matsen/refzone/internal/tei"
	"go.uber.org/zap"
)

// ErrNotResolvable marks a record that must not be sent to the search service.
var ErrNotResolvable = errors.New("record not resolvable")

// DefaultMaxTitleLen is the title length above which a record is considered
// garbage from the extractor.
const DefaultMaxTitleLen = 300

// Record is one structured bibliographic entry of a document.
type Record struct {
	ID      string
	Index   int
	Node    *tei.Node
	Derived fields.Derived
}

// idCounter synthesizes identifiers for records lacking one. A fresh counter
// is used for every document.
type idCounter struct {
	next int
}

func (c *idCounter) id() string {
	c.next++
	return "auto" + strconv.Itoa(c.next)
}

// Load returns the records of doc in document order with their derived
// fields computed.
func Load(doc *tei.Document, log *zap.Logger) []Record {
	if log == nil {
		log = zap.NewNop()
	}
	var ids idCounter
	nodes := doc.Records()
	recs := make([]Record, 0, len(nodes))
	for i, n := range nodes {
		id, ok := n.Attr("xml:id")
		if !ok || id == "" {
			id = ids.id()
		}
		recs = append(recs, Record{
			ID:      id,
			Index:   i,
			Node:    n,
			Derived: fields.Derive(n, log.With(zap.String("record", id))),
		})
	}
	return recs
}

// Resolvable reports why r cannot be resolved, or nil when it can.
func (r Record) Resolvable(maxTitleLen int) error {
	if maxTitleLen <= 0 {
		maxTitleLen = DefaultMaxTitleLen
	}
	if !r.Derived.HasAnalytic {
		return fmt.Errorf("%w: no analytic section", ErrNotResolvable)
	}
	for _, title := range r.Derived.Canonical[fields.FieldTitle] {
		if n := len([]rune(title)); n > maxTitleLen {
			return fmt.Errorf("%w: title too long (%d chars)", ErrNotResolvable, n)
		}
	}
	if r.Derived.Tokens.Empty() {
		return fmt.Errorf("%w: no usable tokens", ErrNotResolvable)
	}
	return nil
}

// Texts returns the normalized extracted text of every record.
func Texts(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Derived.Text
	}
	return out
}
