package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matsen/refzone/internal/search"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Cache stores search hits by backend and query so repeated runs do not
// query the service again. A query with no hit is cached as well.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates a SQLite cache at the given path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS hits (
			backend TEXT NOT NULL,
			query TEXT NOT NULL,
			hit_json TEXT,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (backend, query)
		);

		CREATE TABLE IF NOT EXISTS outcomes (
			run_id TEXT NOT NULL,
			document TEXT NOT NULL,
			record_id TEXT NOT NULL,
			status TEXT NOT NULL,
			rule TEXT,
			hit_id TEXT,
			PRIMARY KEY (run_id, document, record_id)
		);

		CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status);
	`

	_, err := db.Exec(schema)
	return err
}

// Get returns the cached hit for a query. found is false when the query was
// never cached; a cached miss returns found with a nil hit.
func (c *Cache) Get(ctx context.Context, backend, query string) (hit *search.Hit, found bool, err error) {
	var data sql.NullString
	row := c.db.QueryRowContext(ctx, `SELECT hit_json FROM hits WHERE backend = ? AND query = ?`, backend, query)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cached hit: %w", err)
	}
	if !data.Valid {
		return nil, true, nil
	}
	var h search.Hit
	if err := json.Unmarshal([]byte(data.String), &h); err != nil {
		return nil, false, fmt.Errorf("decoding cached hit: %w", err)
	}
	return &h, true, nil
}

// Put stores the hit for a query, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, backend, query string, hit *search.Hit) error {
	var data sql.NullString
	if hit != nil {
		b, err := json.Marshal(hit)
		if err != nil {
			return fmt.Errorf("encoding hit: %w", err)
		}
		data = sql.NullString{String: string(b), Valid: true}
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO hits (backend, query, hit_json, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (backend, query) DO UPDATE SET hit_json = excluded.hit_json, fetched_at = excluded.fetched_at
	`, backend, query, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("caching hit: %w", err)
	}
	return nil
}

// Outcome is one recorded resolution.
type Outcome struct {
	RunID    string
	Document string
	RecordID string
	Status   string
	Rule     string
	HitID    string
}

// RecordOutcome stores the resolution of one record.
func (c *Cache) RecordOutcome(ctx context.Context, o Outcome) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO outcomes (run_id, document, record_id, status, rule, hit_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, o.RunID, o.Document, o.RecordID, o.Status, nullable(o.Rule), nullable(o.HitID))
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

// StatusCounts returns the number of outcomes per status for a run.
func (c *Cache) StatusCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM outcomes WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return nil, fmt.Errorf("counting outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning outcome count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CachedSearcher serves repeated queries from a Cache.
type CachedSearcher struct {
	search.Searcher
	cache   *Cache
	backend string
	logger  *zap.Logger
}

// NewCachedSearcher wraps s with cache. Entries are keyed by backend, which
// must tell apart every service sharing the cache file.
func NewCachedSearcher(s search.Searcher, cache *Cache, backend string, logger *zap.Logger) *CachedSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{Searcher: s, cache: cache, backend: backend, logger: logger}
}

// Top returns the cached hit for the query or asks the wrapped searcher and
// caches its answer. Errors are not cached.
func (c *CachedSearcher) Top(ctx context.Context, req search.Request) (*search.Hit, error) {
	hit, found, err := c.cache.Get(ctx, c.backend, req.Query)
	if err != nil {
		c.logger.Warn("cache lookup failed", zap.Error(err))
	} else if found {
		return hit, nil
	}

	hit, err = c.Searcher.Top(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, c.backend, req.Query, hit); err != nil {
		c.logger.Warn("cache store failed", zap.Error(err))
	}
	return hit, nil
}
