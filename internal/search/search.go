// Package search defines the contract with a bibliographic search service
// and the candidate records it returns.
package search

import "context"

// Request is a single query against the index. Only the top hit is used.
type Request struct {
	Query  string
	Fields []string
}

// DefaultFields are the candidate fields requested from the index.
var DefaultFields = []string{
	"id",
	"title",
	"host.title",
	"host.issn",
	"host.volume",
	"host.pages.first",
	"host.pages.last",
	"publicationDate",
	"author.name",
	"corpusName",
	"doi",
}

// Hit is a candidate record returned by the index.
type Hit struct {
	ID              string   `json:"id"`
	ARK             []string `json:"arkIstex,omitempty"`
	Title           string   `json:"title,omitempty"`
	Host            Host     `json:"host"`
	PublicationDate string   `json:"publicationDate,omitempty"`
	Authors         []Author `json:"author,omitempty"`
	CorpusName      string   `json:"corpusName,omitempty"`
	DOI             []string `json:"doi,omitempty"`
}

// Host describes the publication containing the hit.
type Host struct {
	Title  string   `json:"title,omitempty"`
	ISSN   []string `json:"issn,omitempty"`
	Volume string   `json:"volume,omitempty"`
	Issue  string   `json:"issue,omitempty"`
	Pages  Pages    `json:"pages"`
}

// Pages is a page range.
type Pages struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
}

// Author is a hit author.
type Author struct {
	Name string `json:"name"`
}

// FirstAuthor returns the name of the first author, or "".
func (h *Hit) FirstAuthor() string {
	if len(h.Authors) == 0 {
		return ""
	}
	return h.Authors[0].Name
}

// Searcher runs a query and returns the top hit, or nil when nothing matched.
type Searcher interface {
	Top(ctx context.Context, req Request) (*Hit, error)
	// URI returns the canonical address of a hit.
	URI(h *Hit) string
	// Scheme names the identifier scheme of hit IDs.
	Scheme() string
}
