// Package fields turns a structured record into comparable field values:
// the raw path->value map, its remapping to canonical semantic fields and
// the tokenized form used to build search queries.
package fields

import "strings"

// Field is a canonical semantic field name.
type Field int

// Canonical fields. FieldUnknown and FieldIgnore never appear in a Canonical
// map; they only describe the outcome of a path lookup.
const (
	FieldUnknown Field = iota
	FieldIgnore
	FieldTitle
	FieldAuthorName
	FieldHostTitle
	FieldHostVolume
	FieldHostIssue
	FieldHostPagesFirst
	FieldHostPagesLast
	FieldPublicationDate
	FieldDOI
	FieldPMID
	FieldHostISSN
	FieldHostISBN
	FieldNull
)

// Ordered lists the canonical fields in query order.
var Ordered = []Field{
	FieldTitle,
	FieldAuthorName,
	FieldHostTitle,
	FieldHostVolume,
	FieldHostIssue,
	FieldHostPagesFirst,
	FieldHostPagesLast,
	FieldPublicationDate,
	FieldDOI,
	FieldPMID,
	FieldHostISSN,
	FieldHostISBN,
	FieldNull,
}

var fieldNames = map[Field]string{
	FieldUnknown:         "__UNKNOWN__",
	FieldIgnore:          "__IGNORE__",
	FieldTitle:           "title",
	FieldAuthorName:      "author.name",
	FieldHostTitle:       "host.title",
	FieldHostVolume:      "host.volume",
	FieldHostIssue:       "host.issue",
	FieldHostPagesFirst:  "host.pages.first",
	FieldHostPagesLast:   "host.pages.last",
	FieldPublicationDate: "publicationDate",
	FieldDOI:             "doi",
	FieldPMID:            "pmid",
	FieldHostISSN:        "host.issn",
	FieldHostISBN:        "host.isbn",
	FieldNull:            "_NULL_",
}

// String returns the search-index name of the field.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fieldNames[FieldUnknown]
}

// IsNumeric reports whether f holds numbers (dates, volumes, pages).
func (f Field) IsNumeric() bool {
	switch f {
	case FieldPublicationDate, FieldHostVolume, FieldHostIssue, FieldHostPagesFirst, FieldHostPagesLast:
		return true
	}
	return false
}

// IsIdentifier reports whether f holds an opaque identifier.
func (f Field) IsIdentifier() bool {
	switch f {
	case FieldDOI, FieldPMID, FieldHostISSN, FieldHostISBN:
		return true
	}
	return false
}

// Mapping is the result of looking up a structural path. Path is kept so
// that unrecognized paths can be reported.
type Mapping struct {
	Field Field
	Path  string
}

// Recognized reports whether the path had an entry in the table.
func (m Mapping) Recognized() bool {
	return m.Field != FieldUnknown
}

// pathTable maps record-relative structural paths to canonical fields.
// Forenames and initials are ignored: only surnames take part in matching.
var pathTable = map[string]Field{
	"analytic/title":                       FieldTitle,
	"analytic/title[@level=a]":             FieldTitle,
	"analytic/title[@level=a][@type=main]": FieldTitle,
	"analytic/title[@level=a][@type=sub]":  FieldTitle,

	"analytic/author/persName/surname":                FieldAuthorName,
	"analytic/author/persName/forename":               FieldIgnore,
	"analytic/author/persName/forename[@type=first]":  FieldIgnore,
	"analytic/author/persName/forename[@type=middle]": FieldIgnore,
	"analytic/author/persName/roleName":               FieldIgnore,
	"analytic/author/persName/genName":                FieldIgnore,
	"analytic/author/email":                           FieldIgnore,
	"analytic/idno[@type=DOI]":                        FieldDOI,
	"analytic/idno[@type=doi]":                        FieldDOI,
	"analytic/idno[@type=PMID]":                       FieldPMID,
	"analytic/idno[@type=PMCID]":                      FieldIgnore,
	"analytic/idno[@type=arXiv]":                      FieldIgnore,
	"analytic/idno[@type=istex]":                      FieldIgnore,

	"monogr/title":                         FieldHostTitle,
	"monogr/title[@level=j]":               FieldHostTitle,
	"monogr/title[@level=j][@type=main]":   FieldHostTitle,
	"monogr/title[@level=j][@type=abbrev]": FieldHostTitle,
	"monogr/title[@level=m]":               FieldHostTitle,
	"monogr/title[@level=m][@type=main]":   FieldHostTitle,
	"monogr/title[@level=s]":               FieldNull,

	"monogr/author/persName/surname":                FieldAuthorName,
	"monogr/author/persName/forename":               FieldIgnore,
	"monogr/author/persName/forename[@type=first]":  FieldIgnore,
	"monogr/author/persName/forename[@type=middle]": FieldIgnore,
	"monogr/editor/persName/surname":                FieldIgnore,
	"monogr/editor/persName/forename":               FieldIgnore,
	"monogr/editor/persName/forename[@type=first]":  FieldIgnore,
	"monogr/editor/persName/forename[@type=middle]": FieldIgnore,
	"monogr/editor":                                 FieldIgnore,

	"monogr/idno[@type=ISSN]":  FieldHostISSN,
	"monogr/idno[@type=ISSNe]": FieldHostISSN,
	"monogr/idno[@type=ISBN]":  FieldHostISBN,
	"monogr/meeting":           FieldNull,

	"monogr/imprint/publisher":                   FieldNull,
	"monogr/imprint/pubPlace":                    FieldIgnore,
	"monogr/imprint/note":                        FieldNull,
	"monogr/imprint/date":                        FieldPublicationDate,
	"monogr/imprint/date/@when":                  FieldPublicationDate,
	"monogr/imprint/date[@type=published]":       FieldPublicationDate,
	"monogr/imprint/date[@type=published]/@when": FieldPublicationDate,
	"monogr/imprint/biblScope[@unit=volume]":     FieldHostVolume,
	"monogr/imprint/biblScope[@type=vol]":        FieldHostVolume,
	"monogr/imprint/biblScope[@unit=issue]":      FieldHostIssue,
	"monogr/imprint/biblScope[@type=issue]":      FieldHostIssue,
	"monogr/imprint/biblScope[@unit=page]/@from": FieldHostPagesFirst,
	"monogr/imprint/biblScope[@unit=page]/@to":   FieldHostPagesLast,
	"monogr/imprint/biblScope[@type=pp]/@from":   FieldHostPagesFirst,
	"monogr/imprint/biblScope[@type=pp]/@to":     FieldHostPagesLast,
	"monogr/imprint/biblScope[@unit=pp]/@from":   FieldHostPagesFirst,
	"monogr/imprint/biblScope[@unit=pp]/@to":     FieldHostPagesLast,
	"monogr/imprint/biblScope[@type=page]/@from": FieldHostPagesFirst,
	"monogr/imprint/biblScope[@type=page]/@to":   FieldHostPagesLast,

	"series/title[@level=s]":         FieldNull,
	"series/biblScope[@unit=volume]": FieldIgnore,

	"idno[@type=istex]":         FieldIgnore,
	"note":                      FieldNull,
	"note[@type=report_type]":   FieldNull,
	"note[@type=raw_reference]": FieldIgnore,
}

// ignoredSubtrees drop every path below them (affiliations, addresses).
var ignoredSubtrees = []string{
	"analytic/author/affiliation/",
	"monogr/author/affiliation/",
	"monogr/meeting/",
}

// Lookup maps a structural path to its canonical field.
func Lookup(path string) Mapping {
	if f, ok := pathTable[path]; ok {
		return Mapping{Field: f, Path: path}
	}
	for _, prefix := range ignoredSubtrees {
		if strings.HasPrefix(path, prefix) {
			return Mapping{Field: FieldIgnore, Path: path}
		}
	}
	return Mapping{Field: FieldUnknown, Path: path}
}
