package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/matsen/refzone/internal/rawtext"
	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

// TEISuffix marks the structured half of a document pair.
const TEISuffix = ".tei.xml"

// Failure is a document that could not be processed.
type Failure struct {
	Document string `json:"document"`
	Error    string `json:"error"`
}

// Batch is the result of one run over many documents.
type Batch struct {
	RunID     string            `json:"run_id"`
	Documents []*DocumentResult `json:"documents"`
	Failures  []Failure         `json:"failures,omitempty"`
}

// Results returns the record results of every document in input order.
func (b *Batch) Results() []Result {
	var out []Result
	for _, d := range b.Documents {
		out = append(out, d.Results...)
	}
	return out
}

// Counts returns the number of record results per outcome.
func (b *Batch) Counts() map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, r := range b.Results() {
		if r.Outcome != "" {
			counts[r.Outcome]++
		}
	}
	return counts
}

// RunBatch processes docs with up to workers documents in flight. A failing
// document is recorded in Failures and does not stop the others; only
// cancellation of ctx aborts the batch.
func (p *Processor) RunBatch(ctx context.Context, docs []Document, workers int) (*Batch, error) {
	if workers < 1 {
		workers = 1
	}
	runID := uuid.NewString()
	p.logger.Info("starting batch", zap.String("run_id", runID), zap.Int("documents", len(docs)), zap.Int("workers", workers))

	results := make([]*DocumentResult, len(docs))
	errs := make([]error, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dr, err := p.Process(gctx, doc)
			if err != nil {
				errs[i] = err
				return nil
			}
			for j := range dr.Results {
				dr.Results[j].RunID = runID
			}
			results[i] = dr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", runID, err)
	}

	b := &Batch{RunID: runID}
	for i, dr := range results {
		if errs[i] != nil {
			b.Failures = append(b.Failures, Failure{Document: docs[i].Name, Error: errs[i].Error()})
			continue
		}
		b.Documents = append(b.Documents, dr)
	}
	p.logger.Info("batch finished",
		zap.String("run_id", runID),
		zap.Int("processed", len(b.Documents)),
		zap.Int("failed", len(b.Failures)))
	return b, nil
}

// Discover pairs every *.tei.xml file in dir with a raw document of the same
// base name. TEI files without a raw sibling are returned as orphans.
func Discover(dir string) (docs []Document, orphans []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	raw := make(map[string]string)
	var teiFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, TEISuffix):
			teiFiles = append(teiFiles, name)
		case rawtext.Supported(name):
			base := strings.TrimSuffix(name, filepath.Ext(name))
			if _, ok := raw[base]; !ok {
				raw[base] = name
			}
		}
	}
	sort.Strings(teiFiles)

	for _, name := range teiFiles {
		base := strings.TrimSuffix(name, TEISuffix)
		rawName, ok := raw[base]
		if !ok {
			orphans = append(orphans, name)
			continue
		}
		docs = append(docs, Document{
			Name:    base,
			RawPath: filepath.Join(dir, rawName),
			TEIPath: filepath.Join(dir, name),
		})
	}
	return docs, orphans, nil
}
