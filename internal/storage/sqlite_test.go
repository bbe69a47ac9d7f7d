package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matsen/refzone/internal/search"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_GetPut(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	if _, found, err := c.Get(ctx, "istex", "title:x"); err != nil || found {
		t.Fatalf("Get() on empty cache = found %v, err %v", found, err)
	}

	hit := &search.Hit{ID: "H1", Title: "Adaptive learning", Host: search.Host{Volume: "3"}}
	if err := c.Put(ctx, "istex", "title:x", hit); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, found, err := c.Get(ctx, "istex", "title:x")
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if got.ID != "H1" || got.Host.Volume != "3" {
		t.Errorf("Get() = %+v", got)
	}

	if _, found, _ := c.Get(ctx, "opensearch", "title:x"); found {
		t.Error("entries must be scoped by backend")
	}

	if err := c.Put(ctx, "istex", "title:x", nil); err != nil {
		t.Fatalf("Put(nil) error = %v", err)
	}
	got, found, err = c.Get(ctx, "istex", "title:x")
	if err != nil || !found || got != nil {
		t.Errorf("cached miss = %+v, found %v, err %v", got, found, err)
	}
}

func TestCache_Outcomes(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	outcomes := []Outcome{
		{RunID: "r1", Document: "a", RecordID: "b0", Status: "resolved", Rule: "B", HitID: "H1"},
		{RunID: "r1", Document: "a", RecordID: "b1", Status: "no_hit"},
		{RunID: "r1", Document: "b", RecordID: "b0", Status: "resolved", Rule: "A:issn", HitID: "H2"},
		{RunID: "r2", Document: "a", RecordID: "b0", Status: "error"},
	}
	for _, o := range outcomes {
		if err := c.RecordOutcome(ctx, o); err != nil {
			t.Fatalf("RecordOutcome() error = %v", err)
		}
	}

	counts, err := c.StatusCounts(ctx, "r1")
	if err != nil {
		t.Fatalf("StatusCounts() error = %v", err)
	}
	if counts["resolved"] != 2 || counts["no_hit"] != 1 || counts["error"] != 0 {
		t.Errorf("StatusCounts() = %v", counts)
	}
}

type countingSearcher struct {
	calls int
	hit   *search.Hit
	err   error
}

func (s *countingSearcher) Top(ctx context.Context, req search.Request) (*search.Hit, error) {
	s.calls++
	return s.hit, s.err
}

func (s *countingSearcher) URI(h *search.Hit) string { return "uri:" + h.ID }

func (s *countingSearcher) Scheme() string { return "test" }

func TestCachedSearcher(t *testing.T) {
	ctx := context.Background()
	inner := &countingSearcher{hit: &search.Hit{ID: "H1"}}
	s := NewCachedSearcher(inner, openTestCache(t), "istex", nil)

	for i := 0; i < 3; i++ {
		hit, err := s.Top(ctx, search.Request{Query: "title:x"})
		if err != nil || hit == nil || hit.ID != "H1" {
			t.Fatalf("Top() = %+v, %v", hit, err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner searcher called %d times, want 1", inner.calls)
	}
	if s.URI(&search.Hit{ID: "H1"}) != "uri:H1" {
		t.Error("URI() should delegate to the wrapped searcher")
	}
}

func TestCachedSearcher_BackendsSeparate(t *testing.T) {
	ctx := context.Background()
	cache := openTestCache(t)
	first := &countingSearcher{hit: &search.Hit{ID: "H1"}}
	second := &countingSearcher{hit: &search.Hit{ID: "H2"}}
	a := NewCachedSearcher(first, cache, "istex", nil)
	b := NewCachedSearcher(second, cache, "opensearch/refs", nil)

	if hit, err := a.Top(ctx, search.Request{Query: "title:x"}); err != nil || hit.ID != "H1" {
		t.Fatalf("a.Top() = %+v, %v", hit, err)
	}
	hit, err := b.Top(ctx, search.Request{Query: "title:x"})
	if err != nil || hit == nil || hit.ID != "H2" {
		t.Fatalf("b.Top() = %+v, %v, want H2", hit, err)
	}
	if second.calls != 1 {
		t.Errorf("second searcher called %d times, want 1", second.calls)
	}
}

func TestCachedSearcher_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingSearcher{err: search.ErrNetworkError}
	s := NewCachedSearcher(inner, openTestCache(t), "istex", nil)

	for i := 0; i < 2; i++ {
		if _, err := s.Top(ctx, search.Request{Query: "title:x"}); !errors.Is(err, search.ErrNetworkError) {
			t.Fatalf("Top() error = %v", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner searcher called %d times, want 2", inner.calls)
	}
}
