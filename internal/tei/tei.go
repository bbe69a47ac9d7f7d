// Package tei reads and writes the TEI bibliographic markup produced by
// reference extractors. Documents are kept as an ordered element tree so that
// records can be enriched in place and written back out.
package tei

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformed indicates the input could not be parsed as XML.
var ErrMalformed = errors.New("malformed TEI document")

// RecordTag is the element wrapping one structured bibliographic record.
const RecordTag = "biblStruct"

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Attr is an element attribute. Name keeps the conventional prefix for the
// xml and xmlns namespaces (e.g. "xml:id").
type Attr struct {
	Name  string
	Value string
}

// Node is either an element (Name set) or a text node (Name empty).
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// NewElement creates an element node.
func NewElement(name string, attrs ...Attr) *Node {
	return &Node{Name: name, Attrs: attrs}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Text: text}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Name == ""
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AppendChild adds c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	n.Children = append(n.Children, c)
}

// Elements returns the element children of n in document order.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsText() {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first element child with the given name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// InnerText returns all descendant text, whitespace-collapsed.
func (n *Node) InnerText() string {
	var b strings.Builder
	n.collectText(&b)
	return strings.Join(strings.Fields(b.String()), " ")
}

// OwnText returns the text directly inside n, including the text of inline
// formatting children such as <hi> and <emph>, whitespace-collapsed.
func (n *Node) OwnText() string {
	var b strings.Builder
	for _, c := range n.Children {
		switch {
		case c.IsText():
			b.WriteString(c.Text)
		case IsInline(c.Name):
			c.collectText(&b)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func (n *Node) collectText(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.collectText(b)
		if !c.IsText() {
			b.WriteByte(' ')
		}
	}
}

// Find returns every descendant element of n named name, in document order.
func (n *Node) Find(name string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if c.IsText() {
				continue
			}
			if c.Name == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// inlineTags are formatting elements whose text belongs to their parent.
var inlineTags = map[string]bool{
	"hi":      true,
	"emph":    true,
	"lb":      true,
	"sub":     true,
	"sup":     true,
	"foreign": true,
	"term":    true,
}

// IsInline reports whether elements named name are inline formatting.
func IsInline(name string) bool {
	return inlineTags[name]
}

// Document is a parsed TEI file.
type Document struct {
	Root *Node
}

// Records returns every record element of the document in document order.
func (d *Document) Records() []*Node {
	if d == nil || d.Root == nil {
		return nil
	}
	if d.Root.Name == RecordTag {
		return []*Node{d.Root}
	}
	return d.Root.Find(RecordTag)
}

// ParseFile parses the TEI file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening TEI file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a TEI document. Comments, processing instructions and
// directives are discarded.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: attrName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrMalformed)
				}
				root = el
			} else {
				stack[len(stack)-1].AppendChild(el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].AppendChild(NewText(string(t)))
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return &Document{Root: root}, nil
}

func attrName(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case xmlNamespace, "xml":
		return "xml:" + n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	default:
		return n.Local
	}
}

// Write serializes the document as XML.
func Write(w io.Writer, d *Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if err := writeNode(w, d.Root); err != nil {
		return fmt.Errorf("writing TEI: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile serializes the document to path.
func WriteFile(path string, d *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating TEI file: %w", err)
	}
	defer f.Close()
	return Write(f, d)
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;")
)

func writeNode(w io.Writer, n *Node) error {
	if n.IsText() {
		_, err := io.WriteString(w, textEscaper.Replace(n.Text))
		return err
	}
	if _, err := io.WriteString(w, "<"+n.Name); err != nil {
		return err
	}
	for _, a := range n.Attrs {
		if _, err := io.WriteString(w, " "+a.Name+`="`+attrEscaper.Replace(a.Value)+`"`); err != nil {
			return err
		}
	}
	if len(n.Children) == 0 {
		_, err := io.WriteString(w, "/>")
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := writeNode(w, c); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</"+n.Name+">")
	return err
}

// Enrich appends the resolved identifier of a record as an <idno> child and,
// when uri is set, a <ptr> child pointing at it.
func Enrich(record *Node, scheme, id, uri string) {
	idno := NewElement("idno", Attr{Name: "type", Value: scheme})
	idno.AppendChild(NewText(id))
	record.AppendChild(idno)
	if uri != "" {
		record.AppendChild(NewElement("ptr", Attr{Name: "type", Value: scheme}, Attr{Name: "target", Value: uri}))
	}
}
