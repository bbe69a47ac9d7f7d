// Package opensearch resolves records against a local OpenSearch index of
// bibliographic documents using query_string queries.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matsen/refzone/internal/search"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"go.uber.org/zap"
)

// ErrInvalidConfig is returned for an unusable configuration.
var ErrInvalidConfig = errors.New("invalid opensearch configuration")

// Config holds the connection settings.
type Config struct {
	Addresses    []string
	Username     string
	Password     string
	Index        string
	MaxRetries   int
	RetryBackoff time.Duration
	// URIPrefix is prepended to document ids to build their canonical URI.
	URIPrefix string
	// Scheme names document ids in enriched records.
	Scheme string
}

// Searcher queries one index.
type Searcher struct {
	client *opensearch.Client
	cfg    Config
	logger *zap.Logger
}

// New creates a Searcher. It does not contact the cluster.
func New(cfg Config, logger *zap.Logger) (*Searcher, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("%w: no addresses", ErrInvalidConfig)
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("%w: no index", ErrInvalidConfig)
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "istex"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.Username,
		Password:      cfg.Password,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  func(int) time.Duration { return cfg.RetryBackoff },
		RetryOnStatus: []int{502, 503, 504, 429},
		Transport:     &http.Transport{MaxIdleConnsPerHost: 10},
	})
	if err != nil {
		return nil, fmt.Errorf("creating opensearch client: %w", err)
	}
	return &Searcher{client: client, cfg: cfg, logger: logger}, nil
}

// Scheme implements search.Searcher.
func (s *Searcher) Scheme() string {
	return s.cfg.Scheme
}

// URI implements search.Searcher.
func (s *Searcher) URI(h *search.Hit) string {
	if h == nil || h.ID == "" || s.cfg.URIPrefix == "" {
		return ""
	}
	return s.cfg.URIPrefix + h.ID
}

// Top runs the query as a query_string search and returns the best hit.
func (s *Searcher) Top(ctx context.Context, req search.Request) (*search.Hit, error) {
	fields := req.Fields
	if len(fields) == 0 {
		fields = search.DefaultFields
	}
	dsl := map[string]any{
		"size": 1,
		"query": map[string]any{
			"query_string": map[string]any{
				"query":            req.Query,
				"default_operator": "OR",
			},
		},
		"_source": fields,
	}
	body, err := json.Marshal(dsl)
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	osReq := opensearchapi.SearchRequest{
		Index: []string{s.cfg.Index},
		Body:  bytes.NewReader(body),
	}

	start := time.Now()
	resp, err := osReq.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := search.CheckStatus(resp.StatusCode, strings.TrimSpace(string(msg)))
		if apiErr, ok := err.(*search.APIError); ok {
			apiErr.Query = req.Query
		}
		return nil, err
	}

	var raw struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: parsing search response: %v", search.ErrInvalidResponse, err)
	}

	s.logger.Debug("search executed",
		zap.String("index", s.cfg.Index),
		zap.Int64("took_ms", time.Since(start).Milliseconds()),
		zap.Int("hits", len(raw.Hits.Hits)))

	if len(raw.Hits.Hits) == 0 {
		return nil, nil
	}
	top := raw.Hits.Hits[0]
	var hit search.Hit
	if len(top.Source) > 0 {
		if err := json.Unmarshal(top.Source, &hit); err != nil {
			return nil, fmt.Errorf("%w: parsing hit source: %v", search.ErrInvalidResponse, err)
		}
	}
	if hit.ID == "" {
		hit.ID = top.ID
	}
	return &hit, nil
}
