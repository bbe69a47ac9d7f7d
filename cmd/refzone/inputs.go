package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/matsen/refzone/internal/config"
	"github.com/matsen/refzone/internal/hitcheck"
	"github.com/matsen/refzone/internal/metrics"
	"github.com/matsen/refzone/internal/pipeline"
	"github.com/matsen/refzone/internal/rawtext"
	"github.com/matsen/refzone/internal/search"
	"github.com/matsen/refzone/internal/search/istex"
	"github.com/matsen/refzone/internal/search/opensearch"
	"github.com/matsen/refzone/internal/storage"
	"github.com/matsen/refzone/internal/tei"
	"go.uber.org/zap"
)

// mustReadInputs reads the raw lines and TEI document of one paper, exits on
// error.
func mustReadInputs(rawPath, teiPath string) ([]string, *tei.Document) {
	doc, err := tei.ParseFile(teiPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if rawPath == "" {
		return nil, doc
	}
	lines, err := rawtext.Lines(rawPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return lines, doc
}

// documentName derives a document name from its TEI path.
func documentName(teiPath string) string {
	base := filepath.Base(teiPath)
	if strings.HasSuffix(base, pipeline.TEISuffix) {
		return strings.TrimSuffix(base, pipeline.TEISuffix)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// newSearcher builds the configured search backend.
func newSearcher(cfg *config.Config, logger *zap.Logger) (search.Searcher, error) {
	sc := cfg.Search
	switch sc.Backend {
	case config.BackendOpenSearch:
		s, err := opensearch.New(opensearch.Config{
			Addresses: sc.OpenSearch.Addresses,
			Username:  sc.OpenSearch.Username,
			Password:  sc.OpenSearch.Password,
			Index:     sc.OpenSearch.Index,
			URIPrefix: sc.OpenSearch.URIPrefix,
		}, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		opts := []istex.ClientOption{istex.WithRateLimit(sc.Rate)}
		if sc.Timeout > 0 {
			opts = append(opts, istex.WithHTTPClient(&http.Client{Timeout: sc.Timeout}))
		}
		if sc.Token != "" {
			opts = append(opts, istex.WithToken(sc.Token))
		}
		if sc.BaseURL != "" {
			opts = append(opts, istex.WithBaseURL(sc.BaseURL))
		}
		return istex.NewClient(opts...), nil
	}
}

// resolution bundles everything a resolving command needs.
type resolution struct {
	processor *pipeline.Processor
	cache     *storage.Cache
	metrics   *metrics.Metrics
}

// Close releases the cache, if any.
func (r *resolution) Close() {
	if r.cache != nil {
		r.cache.Close()
	}
}

// mustResolution builds a processor with a resolver on the configured
// backend, cached when a cache database is configured. Exits on error.
func mustResolution(cfg *config.Config, logger *zap.Logger) *resolution {
	s, err := newSearcher(cfg, logger)
	if err != nil {
		exitWithError(ExitConfigError, "creating searcher: %v", err)
	}

	res := &resolution{metrics: metrics.New()}
	if cfg.Output.CacheDB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Output.CacheDB), 0755); err != nil {
			exitWithError(ExitError, "creating cache directory: %v", err)
		}
		res.cache, err = storage.OpenCache(cfg.Output.CacheDB)
		if err != nil {
			exitWithError(ExitError, "opening cache: %v", err)
		}
		s = storage.NewCachedSearcher(s, res.cache, cacheBackend(cfg), logger)
	}

	resolver := pipeline.NewResolver(s, hitcheck.New(cfg.Validate.Journals),
		pipeline.WithQueryParams(cfg.QueryParams()),
		pipeline.WithFields(cfg.Search.Fields),
		pipeline.WithMaxTitleLen(cfg.Validate.MaxTitleLen),
		pipeline.WithMetrics(res.metrics),
		pipeline.WithLogger(logger),
	)
	res.processor = pipeline.NewProcessor(pipeline.Options{
		Zone:     cfg.ZoneParams(),
		Linker:   cfg.LinkerParams(),
		Resolver: resolver,
		Metrics:  res.metrics,
		Logger:   logger,
	})
	return res
}

// cacheBackend names the configured search service in cache keys.
func cacheBackend(cfg *config.Config) string {
	if cfg.Search.Backend == config.BackendOpenSearch {
		return config.BackendOpenSearch + "/" + cfg.Search.OpenSearch.Index
	}
	return cfg.Search.Backend
}

// signalContext returns a context canceled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
