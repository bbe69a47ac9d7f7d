package pipeline

import (
	"context"
	"time"

	"github.com/matsen/refzone/internal/hitcheck"
	"github.com/matsen/refzone/internal/metrics"
	"github.com/matsen/refzone/internal/query"
	"github.com/matsen/refzone/internal/record"
	"github.com/matsen/refzone/internal/search"
	"github.com/matsen/refzone/internal/tei"
	"go.uber.org/zap"
)

// Outcome is the result of resolving one record.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeRejected Outcome = "rejected"
	OutcomeNoHit    Outcome = "no_hit"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeError    Outcome = "error"
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{OutcomeResolved, OutcomeRejected, OutcomeNoHit, OutcomeSkipped, OutcomeError}

// Result describes what happened to one record.
type Result struct {
	RunID    string        `json:"run_id,omitempty"`
	Document string        `json:"document"`
	RecordID string        `json:"record_id"`
	Outcome  Outcome       `json:"outcome,omitempty"`
	Rule     hitcheck.Rule `json:"rule,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Query    string        `json:"query,omitempty"`
	HitID    string        `json:"hit_id,omitempty"`
	URI      string        `json:"uri,omitempty"`
	// Lines are the raw line numbers linked to the record.
	Lines []int `json:"lines,omitempty"`
}

// Resolver looks records up in a search service and validates the top hit.
type Resolver struct {
	searcher    search.Searcher
	validator   *hitcheck.Validator
	query       query.Params
	fields      []string
	maxTitleLen int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithQueryParams sets the query rendering parameters.
func WithQueryParams(p query.Params) ResolverOption {
	return func(r *Resolver) {
		r.query = p
	}
}

// WithFields sets the hit fields requested from the search service.
func WithFields(f []string) ResolverOption {
	return func(r *Resolver) {
		if len(f) > 0 {
			r.fields = f
		}
	}
}

// WithMaxTitleLen sets the longest title considered resolvable.
func WithMaxTitleLen(n int) ResolverOption {
	return func(r *Resolver) {
		r.maxTitleLen = n
	}
}

// WithMetrics records search latency and outcomes on m.
func WithMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver. A nil validator uses the built-in
// abbreviation table only.
func NewResolver(s search.Searcher, v *hitcheck.Validator, opts ...ResolverOption) *Resolver {
	if v == nil {
		v = hitcheck.New(nil)
	}
	r := &Resolver{
		searcher:    s,
		validator:   v,
		query:       query.DefaultParams(),
		fields:      search.DefaultFields,
		maxTitleLen: record.DefaultMaxTitleLen,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs one record through query, search and validation. An accepted
// hit is appended to the record node. Search failures are reported in the
// result, never returned.
func (r *Resolver) Resolve(ctx context.Context, rec *record.Record) Result {
	log := r.logger.With(zap.String("record", rec.ID))
	res := Result{RecordID: rec.ID}
	defer func() { r.metrics.Record(string(res.Outcome)) }()

	if err := rec.Resolvable(r.maxTitleLen); err != nil {
		log.Info("record not resolvable", zap.Error(err))
		res.Outcome = OutcomeSkipped
		res.Reason = err.Error()
		return res
	}

	q := query.Build(rec.Derived.Tokens, r.query)
	if q == "" {
		log.Info("empty query, skipping record")
		res.Outcome = OutcomeSkipped
		res.Reason = "empty query"
		return res
	}
	res.Query = q

	start := time.Now()
	hit, err := r.searcher.Top(ctx, search.Request{Query: q, Fields: r.fields})
	r.metrics.Search(r.searcher.Scheme(), time.Since(start))
	if err != nil {
		log.Error("search failed", zap.String("query", q), zap.Error(err))
		res.Outcome = OutcomeError
		res.Reason = err.Error()
		return res
	}
	if hit == nil {
		log.Debug("no hit", zap.String("query", q))
		res.Outcome = OutcomeNoHit
		return res
	}
	res.HitID = hit.ID

	v := r.validator.Validate(rec.Derived.Canonical, hit)
	if !v.Accepted {
		log.Debug("hit rejected", zap.String("hit", hit.ID))
		res.Outcome = OutcomeRejected
		return res
	}

	res.Outcome = OutcomeResolved
	res.Rule = v.Rule
	res.URI = r.searcher.URI(hit)
	tei.Enrich(rec.Node, r.searcher.Scheme(), hit.ID, res.URI)
	log.Debug("record resolved", zap.String("hit", hit.ID), zap.String("rule", string(v.Rule)))
	return res
}
