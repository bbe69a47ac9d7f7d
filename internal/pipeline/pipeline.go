// Package pipeline ties the per-document steps together: locate the
// reference zone of the raw text, link its lines to the structured records
// and resolve each record against a search service.
package pipeline

import (
	"context"
	"fmt"

	"github.com/matsen/refzone/internal/linker"
	"github.com/matsen/refzone/internal/metrics"
	"github.com/matsen/refzone/internal/rawtext"
	"github.com/matsen/refzone/internal/record"
	"github.com/matsen/refzone/internal/tei"
	"github.com/matsen/refzone/internal/zone"
	"go.uber.org/zap"
)

// Document statuses counted in metrics.
const (
	StatusProcessed = "processed"
	StatusNoZone    = "no_zone"
	StatusFailed    = "failed"
)

// Document is a pair of input files describing the same paper.
type Document struct {
	Name    string `json:"name"`
	RawPath string `json:"raw"`
	TEIPath string `json:"tei"`
}

// DocumentResult is everything computed for one document.
type DocumentResult struct {
	Document string `json:"document"`
	Lines    int    `json:"lines"`
	Records  int    `json:"records"`
	// Zone is nil when no reference zone was found.
	Zone      *zone.Zone       `json:"zone,omitempty"`
	Alignment linker.Alignment `json:"alignment,omitempty"`
	Results   []Result         `json:"results"`
	// TEI is the parsed document, enriched with resolved identifiers.
	TEI *tei.Document `json:"-"`
}

// Linked returns the number of zone lines assigned to a record.
func (d *DocumentResult) Linked() int {
	n := 0
	for _, a := range d.Alignment {
		if a != linker.Unassigned {
			n++
		}
	}
	return n
}

// Options configures a Processor.
type Options struct {
	Zone   zone.Params
	Linker linker.Params
	// Resolver is optional; without it records are only linked.
	Resolver *Resolver
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Processor runs documents through the pipeline. It holds no per-document
// state and is safe for concurrent use.
type Processor struct {
	zone     zone.Params
	linker   linker.Params
	resolver *Resolver
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(opts Options) *Processor {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Processor{
		zone:     opts.Zone,
		linker:   opts.Linker,
		resolver: opts.Resolver,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}
}

// Process reads both files of doc and processes them. A malformed TEI file
// or unreadable raw text fails the document.
func (p *Processor) Process(ctx context.Context, doc Document) (*DocumentResult, error) {
	log := p.logger.With(zap.String("document", doc.Name))

	td, err := tei.ParseFile(doc.TEIPath)
	if err != nil {
		log.Error("malformed TEI, skipping document", zap.String("path", doc.TEIPath), zap.Error(err))
		p.metrics.Document(StatusFailed)
		return nil, err
	}
	lines, err := rawtext.Lines(doc.RawPath)
	if err != nil {
		log.Error("reading raw text failed, skipping document", zap.String("path", doc.RawPath), zap.Error(err))
		p.metrics.Document(StatusFailed)
		return nil, fmt.Errorf("reading raw text: %w", err)
	}
	return p.ProcessParsed(ctx, doc.Name, lines, td), nil
}

// ProcessParsed processes already loaded inputs. Record ids are numbered from
// scratch for every call.
func (p *Processor) ProcessParsed(ctx context.Context, name string, lines []string, td *tei.Document) *DocumentResult {
	log := p.logger.With(zap.String("document", name))
	recs := record.Load(td, log)

	dr := &DocumentResult{
		Document: name,
		Lines:    len(lines),
		Records:  len(recs),
		TEI:      td,
	}

	z, al, err := p.Align(lines, recs)
	var perRecord [][]int
	if err != nil {
		log.Info("no reference zone, linking skipped", zap.Error(err))
		p.metrics.Document(StatusNoZone)
	} else {
		dr.Zone = &z
		dr.Alignment = al
		perRecord = al.Assigned(len(recs))
		p.metrics.Zone(z.Len(), dr.Linked())
		p.metrics.Document(StatusProcessed)
	}

	dr.Results = make([]Result, len(recs))
	for i := range recs {
		var res Result
		if p.resolver != nil {
			if err := ctx.Err(); err != nil {
				res = Result{RecordID: recs[i].ID, Outcome: OutcomeError, Reason: err.Error()}
			} else {
				res = p.resolver.Resolve(ctx, &recs[i])
			}
		} else {
			res = Result{RecordID: recs[i].ID}
		}
		res.Document = name
		if perRecord != nil {
			for _, l := range perRecord[i] {
				res.Lines = append(res.Lines, z.Start+l)
			}
		}
		dr.Results[i] = res
	}
	return dr
}

// Align locates the reference zone of lines and links each zone line to at
// most one record. The alignment is indexed from the zone start.
func (p *Processor) Align(lines []string, recs []record.Record) (zone.Zone, linker.Alignment, error) {
	z, err := zone.Locate(lines, record.Texts(recs), p.zone, p.logger)
	if err != nil {
		return zone.Zone{}, nil, err
	}
	words := make([]map[string]struct{}, len(recs))
	for i, r := range recs {
		words[i] = r.Derived.Words
	}
	return z, linker.Link(lines[z.Start:z.End+1], words, p.linker), nil
}
