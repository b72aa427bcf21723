package paths

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/landing-site/internal/cms"
	"github.com/jonathan/landing-site/internal/types"
)

// Resolver enumerates the routes implied by the content graph.
type Resolver struct {
	content *cms.Content
}

// NewResolver creates a resolver over the content service.
func NewResolver(content *cms.Content) *Resolver {
	return &Resolver{content: content}
}

// Resolve returns the routes of the full site (empty scope) or of one landing subtree.
//
// The result always starts with / and /blog and ends with the sitemap and robots routes.
// A root scope also includes every blog post route. Any content error yields Fallback
// instead of an error, so invalidation can always proceed.
func (r *Resolver) Resolve(ctx context.Context, scope string) *Set {
	var (
		set *Set
		err error
	)
	if scope == "" {
		set, err = r.resolveFull(ctx)
	} else {
		set, err = r.resolveScoped(ctx, scope)
	}
	if err != nil {
		log.Printf("[paths] resolution failed for scope %q, using fallback: %v", scope, err)
		return Fallback()
	}
	set.Add(Sitemap, Robots)
	return set
}

func (r *Resolver) resolveFull(ctx context.Context) (*Set, error) {
	var (
		landings []*types.LandingPage
		blogs    []*types.DynamicPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		landings, err = r.content.LandingPages(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		blogs, err = r.content.BlogPages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := NewSet(Root, Blog)
	for _, landing := range landings {
		if !landing.IsRoot() {
			set.Add(LandingPath(landing.Slug))
		}
		for _, child := range landing.DynamicPages {
			set.Add(PagePath(child))
		}
	}
	for _, post := range blogs {
		set.Add(BlogPath(post.Slug))
	}
	return set, nil
}

// resolveScoped covers one landing and its children. Blog children are only covered by
// root and full-site scopes since blog routes do not live under the landing.
func (r *Resolver) resolveScoped(ctx context.Context, scope string) (*Set, error) {
	slug := scope
	if Normalize(scope) == Root {
		slug = types.RootSlug
	}

	set := NewSet(Root, Blog)
	if slug != types.RootSlug {
		set.Add(LandingPath(slug))
	}

	landing, err := r.content.LandingPage(ctx, slug)
	if err != nil {
		return nil, err
	}
	if landing != nil {
		for _, child := range landing.DynamicPages {
			if child.IsBlog() && !landing.IsRoot() {
				continue
			}
			set.Add(PagePath(child))
		}
	}

	if slug == types.RootSlug {
		blogs, err := r.content.BlogPages(ctx)
		if err != nil {
			return nil, err
		}
		for _, post := range blogs {
			set.Add(BlogPath(post.Slug))
		}
	}
	return set, nil
}

// RouteKind classifies a route for sitemap priorities.
type RouteKind string

const (
	KindRoot      RouteKind = "root"
	KindLanding   RouteKind = "landing"
	KindPage      RouteKind = "page"
	KindLegal     RouteKind = "legal"
	KindBlogIndex RouteKind = "blog-index"
	KindBlogPost  RouteKind = "blog-post"
)

// Route is a publicly served page with its metadata.
type Route struct {
	Path         string
	Kind         RouteKind
	LastModified time.Time
}

// Routes returns the visible pages of the site in a stable order. Unlike Resolve it
// reports content errors to the caller.
func (r *Resolver) Routes(ctx context.Context) ([]Route, error) {
	var (
		landings []*types.LandingPage
		blogs    []*types.DynamicPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		landings, err = r.content.LandingPages(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		blogs, err = r.content.BlogPages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var routes []Route
	add := func(path string, kind RouteKind, modified time.Time) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		routes = append(routes, Route{Path: path, Kind: kind, LastModified: modified})
	}

	var rootModified time.Time
	for _, landing := range landings {
		if landing.IsRoot() {
			rootModified = landing.UpdatedAt
		}
	}
	add(Root, KindRoot, rootModified)

	var newestPost time.Time
	for _, post := range blogs {
		if post.IsVisible && post.LastModified().After(newestPost) {
			newestPost = post.LastModified()
		}
	}
	add(Blog, KindBlogIndex, newestPost)

	for _, landing := range landings {
		if !landing.IsVisible {
			continue
		}
		if !landing.IsRoot() {
			add(LandingPath(landing.Slug), KindLanding, landing.UpdatedAt)
		}
		for _, child := range landing.DynamicPages {
			if !child.IsVisible {
				continue
			}
			add(PagePath(child), kindOf(child), child.LastModified())
		}
	}
	for _, post := range blogs {
		if post.IsVisible {
			add(BlogPath(post.Slug), KindBlogPost, post.LastModified())
		}
	}
	return routes, nil
}

func kindOf(page types.DynamicPage) RouteKind {
	switch page.Location {
	case types.LocationBlog:
		return KindBlogPost
	case types.LocationLegal:
		return KindLegal
	default:
		return KindPage
	}
}

// PageRoutes returns the routes at which a dynamic page with the given slug is served,
// through every landing that references it.
func (r *Resolver) PageRoutes(ctx context.Context, slug string) ([]string, error) {
	pages, err := r.content.NavigationPages(ctx)
	if err != nil {
		return nil, err
	}
	set := NewSet()
	for _, page := range pages {
		if page.Slug == slug {
			set.Add(PagePath(page))
		}
	}
	return set.Slice(), nil
}
