// Package site decides what content a request path serves.
//
// A path is a landing page, a landing's nested dynamic page, a top-level dynamic page, the
// blog index or a blog post. Child pages are only served under a landing that lists them.
package site

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/landing-site/internal/cms"
	"github.com/jonathan/landing-site/internal/paths"
	"github.com/jonathan/landing-site/internal/types"
)

// PageKind is the kind of content a path resolved to.
type PageKind string

const (
	KindLanding   PageKind = "landing"
	KindDynamic   PageKind = "dynamic"
	KindBlogIndex PageKind = "blog-index"
	KindBlogPost  PageKind = "blog-post"
)

// Page is everything needed to render one path.
type Page struct {
	Kind PageKind
	Path string

	// Root is the root landing page. It provides site-wide metadata and theme.
	Root *types.LandingPage
	// Landing is the rendered landing for KindLanding, or the parent of a dynamic page.
	Landing *types.LandingPage
	Dynamic *types.DynamicPage

	Header     *types.Section
	Footer     *types.Section
	Navigation Navigation

	Blog       *cms.BlogList
	Recent     []*types.DynamicPage
	Categories []string
}

// ParentSlug returns the slug whose chrome the page is rendered with.
func (p *Page) ParentSlug() string {
	if p.Landing != nil {
		return p.Landing.Slug
	}
	return types.RootSlug
}

// Resolver maps request paths to content.
type Resolver struct {
	content  *cms.Content
	pageSize int
}

// NewResolver creates a page resolver. pageSize bounds the blog index; zero uses the
// CMS default.
func NewResolver(content *cms.Content, pageSize int) *Resolver {
	if pageSize <= 0 {
		pageSize = cms.DefaultBlogPageSize
	}
	return &Resolver{content: content, pageSize: pageSize}
}

// Bootstrap loads the root landing page. Its absence is ErrRootMissing and a CMS failure
// is returned as is, so callers can tell maintenance from a broken site.
func (r *Resolver) Bootstrap(ctx context.Context) (*types.LandingPage, error) {
	root, err := r.content.LandingPage(ctx, types.RootSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to load root landing page: %w", err)
	}
	if root == nil {
		return nil, ErrRootMissing
	}
	return root, nil
}

// Resolve resolves a request path. The blog index is resolved at its first page.
func (r *Resolver) Resolve(ctx context.Context, path string) (*Page, error) {
	path = paths.Normalize(path)
	segments := paths.Segments(path)

	if len(segments) > 0 && segments[0] == string(types.LocationBlog) {
		switch len(segments) {
		case 1:
			return r.BlogIndex(ctx, 1)
		case 2:
			return r.BlogPost(ctx, segments[1])
		default:
			return nil, notFound(path, "blog routes are flat")
		}
	}

	root, err := r.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return r.landingPage(ctx, path, root, root)
	}

	fullSlug := strings.Join(segments, "/")
	landing, err := r.content.LandingPage(ctx, fullSlug)
	if err != nil {
		return nil, err
	}
	if landing != nil && landing.IsVisible {
		return r.landingPage(ctx, path, root, landing)
	}

	return r.dynamicPage(ctx, path, root, segments)
}

func (r *Resolver) landingPage(ctx context.Context, path string, root, landing *types.LandingPage) (*Page, error) {
	if !landing.IsVisible && !landing.IsRoot() {
		return nil, notFound(path, "landing is not visible")
	}
	page := &Page{
		Kind:    KindLanding,
		Path:    path,
		Root:    root,
		Landing: landing,
		Header:  landing.FindSection(types.SectionHeader),
		Footer:  landing.FindSection(types.SectionFooter),
	}
	page.Navigation = r.navigation(ctx, landing.Slug)
	return page, nil
}

// dynamicPage loads the page and its parent concurrently and checks that the parent
// lists the page, unless the parent is the root.
func (r *Resolver) dynamicPage(ctx context.Context, path string, root *types.LandingPage, segments []string) (*Page, error) {
	pageSlug := segments[len(segments)-1]
	parentSlug := types.RootSlug
	if len(segments) > 1 {
		parentSlug = strings.Join(segments[:len(segments)-1], "/")
		// A child named like its parent is published at the parent route (paths.Join).
		if segments[len(segments)-2] == pageSlug {
			return nil, notFound(path, "page collapses onto "+paths.LandingPath(parentSlug))
		}
	}

	var (
		dynamic *types.DynamicPage
		parent  *types.LandingPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dynamic, err = r.content.DynamicPage(gctx, pageSlug, parentSlug)
		return err
	})
	g.Go(func() error {
		if parentSlug == types.RootSlug {
			parent = root
			return nil
		}
		var err error
		parent, err = r.content.LandingPage(gctx, parentSlug)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	switch {
	case dynamic == nil:
		return nil, notFound(path, "no such page")
	case !dynamic.IsVisible:
		return nil, notFound(path, "page is not visible")
	case parent == nil:
		return nil, notFound(path, "no such parent landing")
	case parentSlug != types.RootSlug && !parent.ReferencesPage(pageSlug):
		return nil, notFound(path, "page is not listed by "+parentSlug)
	}

	if dynamic.ParentLandingSlug == "" && parentSlug != types.RootSlug {
		annotated := dynamic.WithParent(parent.Slug)
		dynamic = &annotated
	}

	page := &Page{
		Kind:    KindDynamic,
		Path:    path,
		Root:    root,
		Landing: parent,
		Dynamic: dynamic,
		Header:  parent.FindSection(types.SectionHeader),
		Footer:  parent.FindSection(types.SectionFooter),
	}
	page.Navigation = r.navigation(ctx, parent.Slug)
	return page, nil
}

// BlogIndex resolves one page of the blog index with the root chrome.
func (r *Resolver) BlogIndex(ctx context.Context, pageNumber int) (*Page, error) {
	root, err := r.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	list := r.content.Blogs(ctx, pageNumber, r.pageSize)
	if pageNumber > 1 && pageNumber > list.Pages {
		return nil, notFound(paths.Blog, fmt.Sprintf("page %d of %d", pageNumber, list.Pages))
	}
	return &Page{
		Kind:       KindBlogIndex,
		Path:       paths.Blog,
		Root:       root,
		Landing:    root,
		Header:     root.FindSection(types.SectionHeader),
		Footer:     root.FindSection(types.SectionFooter),
		Navigation: r.navigation(ctx, root.Slug),
		Blog:       list,
		Categories: r.content.BlogCategories(ctx),
	}, nil
}

// BlogPost resolves a blog post with the root chrome and the most recent other posts.
func (r *Resolver) BlogPost(ctx context.Context, slug string) (*Page, error) {
	path := paths.BlogPath(slug)
	root, err := r.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	post, err := r.content.DynamicPage(ctx, slug, string(types.LocationBlog))
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsVisible {
		return nil, notFound(path, "no such blog post")
	}

	var recent []*types.DynamicPage
	for _, p := range r.content.RecentBlogs(ctx, 4) {
		if p.Slug != post.Slug && len(recent) < 3 {
			recent = append(recent, p)
		}
	}

	return &Page{
		Kind:       KindBlogPost,
		Path:       path,
		Root:       root,
		Landing:    root,
		Dynamic:    post,
		Header:     root.FindSection(types.SectionHeader),
		Footer:     root.FindSection(types.SectionFooter),
		Navigation: r.navigation(ctx, root.Slug),
		Recent:     recent,
	}, nil
}

// navigation is secondary data: a failure degrades to empty navigation.
func (r *Resolver) navigation(ctx context.Context, landingSlug string) Navigation {
	pages, err := r.content.NavigationPages(ctx)
	if err != nil {
		return Navigation{}
	}
	return NavigationFor(pages, landingSlug)
}

// IsUnavailable reports whether err means the CMS could not be reached, as opposed to
// missing content.
func IsUnavailable(err error) bool {
	return errors.Is(err, cms.ErrUnavailable)
}
