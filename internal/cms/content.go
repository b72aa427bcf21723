package cms

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/landing-site/internal/types"
)

// Link resolution depths used by the typed queries.
const (
	PageInclude = 4
	BlogInclude = 2
)

// DefaultBlogPageSize is the number of posts on one blog index page.
const DefaultBlogPageSize = 6

// Content maps repository entries onto the site model.
type Content struct {
	repo Repository
}

// NewContent creates the typed content service.
func NewContent(repo Repository) *Content {
	return &Content{repo: repo}
}

// Repository returns the underlying repository.
func (c *Content) Repository() Repository {
	return c.repo
}

// CheckConnection verifies the repository is reachable with the configured credentials.
func (c *Content) CheckConnection(ctx context.Context) error {
	if err := c.repo.Ping(ctx); err != nil {
		return fmt.Errorf("content repository check failed: %w", err)
	}
	return nil
}

// LandingPage returns the landing page with the given slug, or nil when none exists.
// Nested dynamic pages carry the landing slug as their parent.
func (c *Content) LandingPage(ctx context.Context, slug string) (*types.LandingPage, error) {
	if slug == "" {
		slug = types.RootSlug
	}
	entry, err := c.repo.GetEntryBySlug(ctx, types.ContentTypeLandingPage, slug, PageInclude)
	if err != nil {
		return nil, fmt.Errorf("failed to get landing page %q: %w", slug, err)
	}
	return types.LandingPageFromEntry(entry), nil
}

// LandingPages returns every landing page.
func (c *Content) LandingPages(ctx context.Context) ([]*types.LandingPage, error) {
	entries, err := c.all(ctx, types.ContentTypeLandingPage, Query{Include: PageInclude})
	if err != nil {
		return nil, fmt.Errorf("failed to list landing pages: %w", err)
	}
	pages := make([]*types.LandingPage, 0, len(entries))
	for _, e := range entries {
		pages = append(pages, types.LandingPageFromEntry(e))
	}
	return pages, nil
}

// DynamicPage finds a dynamic page by slug under parentSlug.
//
// A "blog" parent searches blog posts only. Any other parent first searches the parent's
// own non-blog references. Otherwise the search is global and excludes blog posts.
func (c *Content) DynamicPage(ctx context.Context, slug, parentSlug string) (*types.DynamicPage, error) {
	if parentSlug == string(types.LocationBlog) {
		entry, err := c.first(ctx, types.ContentTypeDynamicPage, Query{
			Filters: map[string]string{"fields.slug": slug, "fields.location": string(types.LocationBlog)},
			Include: PageInclude,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get blog post %q: %w", slug, err)
		}
		return types.DynamicPageFromEntry(entry), nil
	}

	if parentSlug != "" && parentSlug != types.RootSlug {
		parent, err := c.LandingPage(ctx, parentSlug)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			for _, page := range parent.DynamicPages {
				if page.Slug == slug && !page.IsBlog() {
					p := page
					return &p, nil
				}
			}
		}
	}

	entry, err := c.first(ctx, types.ContentTypeDynamicPage, Query{
		Filters: map[string]string{"fields.slug": slug, "fields.location[ne]": string(types.LocationBlog)},
		Include: PageInclude,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dynamic page %q: %w", slug, err)
	}
	return types.DynamicPageFromEntry(entry), nil
}

// NavigationPages returns the dynamic pages referenced by every landing page, each
// annotated with its owning landing slug.
func (c *Content) NavigationPages(ctx context.Context) ([]types.DynamicPage, error) {
	landings, err := c.LandingPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get navigation pages: %w", err)
	}
	var pages []types.DynamicPage
	for _, l := range landings {
		pages = append(pages, l.DynamicPages...)
	}
	return pages, nil
}

// BlogPages returns every blog-located dynamic page, visible or not.
func (c *Content) BlogPages(ctx context.Context) ([]*types.DynamicPage, error) {
	entries, err := c.all(ctx, types.ContentTypeDynamicPage, Query{
		Filters: map[string]string{"fields.location": string(types.LocationBlog)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list blog pages: %w", err)
	}
	return decodePages(entries), nil
}

// BlogList is one page of the blog index.
type BlogList struct {
	Posts []*types.DynamicPage
	Total int
	Page  int
	Pages int
}

// Blogs returns one page of visible blog posts, newest first. Failures degrade to an
// empty list.
func (c *Content) Blogs(ctx context.Context, page, limit int) *BlogList {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultBlogPageSize
	}
	list := &BlogList{Page: page}

	collection, err := c.repo.GetEntries(ctx, types.ContentTypeDynamicPage, Query{
		Filters: visibleBlogFilters(),
		Order:   "-fields.publishDate",
		Limit:   limit,
		Skip:    (page - 1) * limit,
		Include: BlogInclude,
	})
	if err != nil {
		log.Printf("[cms] failed to fetch blogs: %v", err)
		return list
	}

	list.Posts = decodePages(collection.Items)
	list.Total = collection.Total
	list.Pages = (collection.Total + limit - 1) / limit
	return list
}

// RecentBlogs returns the newest visible blog posts. Failures degrade to an empty list.
func (c *Content) RecentBlogs(ctx context.Context, limit int) []*types.DynamicPage {
	if limit < 1 {
		limit = 3
	}
	collection, err := c.repo.GetEntries(ctx, types.ContentTypeDynamicPage, Query{
		Filters: visibleBlogFilters(),
		Order:   "-fields.publishDate",
		Limit:   limit,
		Include: BlogInclude,
	})
	if err != nil {
		log.Printf("[cms] failed to fetch recent blogs: %v", err)
		return nil
	}
	return decodePages(collection.Items)
}

// BlogCategories returns the distinct tags of visible blog posts, title-cased and sorted.
// Failures degrade to an empty list.
func (c *Content) BlogCategories(ctx context.Context) []string {
	entries, err := c.all(ctx, types.ContentTypeDynamicPage, Query{Filters: visibleBlogFilters()})
	if err != nil {
		log.Printf("[cms] failed to fetch blog categories: %v", err)
		return nil
	}

	caser := cases.Title(language.Und)
	seen := make(map[string]bool)
	var categories []string
	for _, e := range entries {
		for _, tag := range e.Strings("tags") {
			key := strings.ToLower(strings.TrimSpace(tag))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			categories = append(categories, caser.String(key))
		}
	}
	sort.Strings(categories)
	return categories
}

// LegalPages returns the visible legal pages. Failures degrade to an empty list.
func (c *Content) LegalPages(ctx context.Context) []*types.DynamicPage {
	entries, err := c.all(ctx, types.ContentTypeDynamicPage, Query{
		Filters: map[string]string{
			"fields.location":  string(types.LocationLegal),
			"fields.isVisible": "true",
		},
	})
	if err != nil {
		log.Printf("[cms] failed to fetch legal pages: %v", err)
		return nil
	}
	return decodePages(entries)
}

// PricingPlan returns the pricing plan with the given entry id, or nil when none exists.
func (c *Content) PricingPlan(ctx context.Context, id string) (*types.PricingPlan, error) {
	entry, err := c.repo.GetEntry(ctx, id, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to get pricing plan %q: %w", id, err)
	}
	if entry == nil {
		return nil, nil
	}
	return types.PricingPlanFromEntry(entry), nil
}

func (c *Content) first(ctx context.Context, contentType string, q Query) (*types.Entry, error) {
	q.Limit = 1
	collection, err := c.repo.GetEntries(ctx, contentType, q)
	if err != nil {
		return nil, err
	}
	return first(collection), nil
}

// all pages through every result of a query.
func (c *Content) all(ctx context.Context, contentType string, q Query) ([]*types.Entry, error) {
	q.Limit = DefaultLimit
	var out []*types.Entry
	for {
		collection, err := c.repo.GetEntries(ctx, contentType, q)
		if err != nil {
			return nil, err
		}
		out = append(out, collection.Items...)
		q.Skip += len(collection.Items)
		if len(collection.Items) == 0 || q.Skip >= collection.Total {
			return out, nil
		}
	}
}

func visibleBlogFilters() map[string]string {
	return map[string]string{
		"fields.location":  string(types.LocationBlog),
		"fields.isVisible": "true",
	}
}

func decodePages(entries []*types.Entry) []*types.DynamicPage {
	pages := make([]*types.DynamicPage, 0, len(entries))
	for _, e := range entries {
		if p := types.DynamicPageFromEntry(e); p != nil {
			pages = append(pages, p)
		}
	}
	return pages
}
