// Package rendercache stores rendered HTML per site path until it expires or a
// revalidation invalidates it.
package rendercache

import (
	"context"
	"fmt"
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jonathan/landing-site/internal/db"
)

// Page is one cached rendering.
type Page struct {
	Path       string
	HTML       string
	Status     int
	RenderedAt time.Time
}

// Store is a render cache. Get returns nil for missing or stale pages. Invalidating a
// path that is not cached succeeds.
type Store interface {
	Get(ctx context.Context, path string) (*Page, error)
	Put(ctx context.Context, page *Page) error
	Invalidate(ctx context.Context, path string) error
	InvalidateAll(ctx context.Context) error
}

// LRUStore is an in-process Store bounded by entry count and age.
type LRUStore struct {
	cache *lru.Cache[string, Page]
	ttl   time.Duration
	now   func() time.Time
}

// NewLRUStore creates an LRU store holding at most size pages for ttl each.
func NewLRUStore(size int, ttl time.Duration) (*LRUStore, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("render cache ttl must be positive, got: %s", ttl)
	}
	cache, err := lru.New[string, Page](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create render cache: %w", err)
	}
	return &LRUStore{cache: cache, ttl: ttl, now: time.Now}, nil
}

// Get returns a fresh cached page or nil.
func (s *LRUStore) Get(ctx context.Context, path string) (*Page, error) {
	page, ok := s.cache.Get(path)
	if !ok {
		return nil, nil
	}
	if s.now().Sub(page.RenderedAt) >= s.ttl {
		s.cache.Remove(path)
		return nil, nil
	}
	return &page, nil
}

// Put stores a page, stamping its render time when unset.
func (s *LRUStore) Put(ctx context.Context, page *Page) error {
	p := *page
	if p.RenderedAt.IsZero() {
		p.RenderedAt = s.now()
	}
	s.cache.Add(p.Path, p)
	return nil
}

// Invalidate drops a cached page.
func (s *LRUStore) Invalidate(ctx context.Context, path string) error {
	if s.cache.Remove(path) {
		log.Printf("[cache] invalidated %s", path)
	}
	return nil
}

// InvalidateAll drops every cached page.
func (s *LRUStore) InvalidateAll(ctx context.Context) error {
	n := s.cache.Len()
	s.cache.Purge()
	log.Printf("[cache] purged %d pages", n)
	return nil
}

// Len returns the number of cached pages, fresh or stale.
func (s *LRUStore) Len() int {
	return s.cache.Len()
}

// PageDB is the subset of *db.DB used by PGStore.
type PageDB interface {
	GetFreshRenderedPage(ctx context.Context, path string) (*db.RenderedPage, error)
	UpsertRenderedPage(ctx context.Context, page *db.RenderedPage, ttl time.Duration) error
	InvalidateRenderedPage(ctx context.Context, path string) error
	InvalidateAllRenderedPages(ctx context.Context) (int64, error)
}

// PGStore is a Store in PostgreSQL, shared by every server instance.
type PGStore struct {
	db  PageDB
	ttl time.Duration
}

// NewPGStore creates a Postgres-backed store.
func NewPGStore(database PageDB, ttl time.Duration) *PGStore {
	return &PGStore{db: database, ttl: ttl}
}

// Get returns a fresh cached page or nil.
func (s *PGStore) Get(ctx context.Context, path string) (*Page, error) {
	rp, err := s.db.GetFreshRenderedPage(ctx, path)
	if err != nil || rp == nil {
		return nil, err
	}
	return &Page{Path: rp.Path, HTML: rp.HTML, Status: rp.Status, RenderedAt: rp.RenderedAt}, nil
}

// Put stores a page.
func (s *PGStore) Put(ctx context.Context, page *Page) error {
	return s.db.UpsertRenderedPage(ctx, &db.RenderedPage{
		Path:   page.Path,
		HTML:   page.HTML,
		Status: page.Status,
	}, s.ttl)
}

// Invalidate marks a cached page stale.
func (s *PGStore) Invalidate(ctx context.Context, path string) error {
	return s.db.InvalidateRenderedPage(ctx, path)
}

// InvalidateAll marks every cached page stale.
func (s *PGStore) InvalidateAll(ctx context.Context) error {
	n, err := s.db.InvalidateAllRenderedPages(ctx)
	if err != nil {
		return err
	}
	log.Printf("[cache] invalidated %d stored pages", n)
	return nil
}
