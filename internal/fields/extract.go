package fields

import (
	"strings"

	"github.com/matsen/refzone/internal/tei"
	"go.uber.org/zap"
)

// FieldMap holds raw values by structural path, in first-seen path order.
// It never stores a blank value.
type FieldMap struct {
	paths  []string
	values map[string][]string
}

// Paths returns the recorded paths in document order.
func (m FieldMap) Paths() []string {
	return m.paths
}

// Values returns the values recorded under path.
func (m FieldMap) Values(path string) []string {
	return m.values[path]
}

// Len returns the number of recorded paths.
func (m FieldMap) Len() int {
	return len(m.paths)
}

func (m *FieldMap) add(path, value string) {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return
	}
	if m.values == nil {
		m.values = make(map[string][]string)
	}
	if _, ok := m.values[path]; !ok {
		m.paths = append(m.paths, path)
	}
	m.values[path] = append(m.values[path], value)
}

// discriminators are the attributes that take part in a path segment, in
// the order they are rendered.
var discriminators = []string{"level", "type", "unit"}

// Segment renders the path signature of a single element.
func Segment(n *tei.Node) string {
	var b strings.Builder
	b.WriteString(n.Name)
	for _, name := range discriminators {
		if v, ok := n.Attr(name); ok && v != "" {
			b.WriteString("[@" + name + "=" + v + "]")
		}
	}
	return b.String()
}

// Extract walks the record depth-first and collects every non-blank text or
// attribute value under its structural path, relative to the record.
func Extract(record *tei.Node, log *zap.Logger) FieldMap {
	if log == nil {
		log = zap.NewNop()
	}
	var fm FieldMap
	if record == nil {
		return fm
	}
	extractChildren(&fm, record, "", log)
	return fm
}

func extractChildren(fm *FieldMap, n *tei.Node, prefix string, log *zap.Logger) {
	for _, c := range n.Elements() {
		if tei.IsInline(c.Name) {
			continue
		}
		path := Segment(c)
		if prefix != "" {
			path = prefix + "/" + path
		}

		switch {
		case c.Name == "date":
			if when, ok := c.Attr("when"); ok && strings.TrimSpace(when) != "" {
				fm.add(path+"/@when", when)
				continue
			}
			if text := c.InnerText(); text != "" {
				log.Warn("date without when attribute", zap.String("path", path), zap.String("text", text))
				fm.add(path, text)
			}
		case isPageRange(c):
			from, hasFrom := c.Attr("from")
			to, hasTo := c.Attr("to")
			if hasFrom || hasTo {
				fm.add(path+"/@from", from)
				fm.add(path+"/@to", to)
				continue
			}
			fm.add(path+"/@from", c.InnerText())
		default:
			fm.add(path, c.OwnText())
			extractChildren(fm, c, path, log)
		}
	}
}

func isPageRange(n *tei.Node) bool {
	if n.Name != "biblScope" {
		return false
	}
	unit, _ := n.Attr("unit")
	typ, _ := n.Attr("type")
	return unit == "page" || unit == "pp" || typ == "pp" || typ == "page"
}
