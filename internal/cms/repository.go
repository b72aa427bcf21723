// Package cms reads site content from the headless CMS.
//
// Repository is the raw query contract: entries by slug, by filter and by id, with links
// resolved to a bounded depth. Client speaks the Contentful Delivery API, MemoryRepository
// serves a local fixture, and Content maps raw entries onto the typed site model.
package cms

import (
	"context"

	"github.com/jonathan/landing-site/internal/types"
)

// DefaultLimit is the page size used when a query does not set one.
const DefaultLimit = 100

// MaxLimit is the largest page size the delivery API accepts.
const MaxLimit = 1000

// Query selects entries of one content type.
type Query struct {
	// Filters are delivery API search parameters, e.g. "fields.slug" or "fields.location[ne]".
	Filters map[string]string
	Order   string
	Limit   int
	Skip    int
	Include int // link resolution depth
}

// EntryCollection is one page of query results.
type EntryCollection struct {
	Items []*types.Entry
	Total int
}

// Repository is the content query contract consumed by the resolvers.
// Not-found is reported as a nil entry with a nil error.
type Repository interface {
	GetEntryBySlug(ctx context.Context, contentType, slug string, include int) (*types.Entry, error)
	GetEntries(ctx context.Context, contentType string, q Query) (*EntryCollection, error)
	GetEntry(ctx context.Context, id string, include int) (*types.Entry, error)
	Ping(ctx context.Context) error
}

func (q Query) limit() int {
	switch {
	case q.Limit <= 0:
		return DefaultLimit
	case q.Limit > MaxLimit:
		return MaxLimit
	default:
		return q.Limit
	}
}

func first(c *EntryCollection) *types.Entry {
	if c == nil || len(c.Items) == 0 {
		return nil
	}
	return c.Items[0]
}
