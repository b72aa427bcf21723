package revalidate

import (
	"fmt"

	"github.com/jonathan/landing-site/internal/paths"
	"github.com/jonathan/landing-site/internal/types"
)

// ScopeKind is the breadth of an invalidation.
type ScopeKind string

const (
	ScopePaths   ScopeKind = "paths"
	ScopeLanding ScopeKind = "landing"
	ScopeFull    ScopeKind = "full"
)

// Scope is the subset of the site an invalidation targets.
type Scope struct {
	Kind ScopeKind
	// Slug is the landing slug of a landing scope.
	Slug string
	// Paths are the explicit routes of a paths scope.
	Paths []string
	// PageSlug is a non-blog dynamic page whose nested routes are looked up at resolve time.
	PageSlug string
}

func (s Scope) String() string {
	switch s.Kind {
	case ScopeLanding:
		return fmt.Sprintf("landing:%s", s.Slug)
	case ScopePaths:
		return fmt.Sprintf("paths:%v", s.Paths)
	default:
		return string(s.Kind)
	}
}

// ScopeFor decides what a change invalidates:
//
//	dynamicPage in the blog, blogPost   /, /blog, /blog/{slug}
//	other dynamicPage                   /, /{slug} and its nested routes
//	landingPage with theme fields       the full site
//	landingPage                         that landing's subtree
//	anything else                       / only
func ScopeFor(req *Request) Scope {
	switch req.ContentTypeID {
	case types.ContentTypeDynamicPage:
		if req.Location == types.LocationBlog {
			return blogScope(req.Slug)
		}
		scope := Scope{Kind: ScopePaths, Paths: []string{paths.Root}}
		if req.Slug != "" {
			scope.Paths = append(scope.Paths, paths.LandingPath(req.Slug))
			scope.PageSlug = req.Slug
		}
		return scope
	case types.ContentTypeBlogPost:
		return blogScope(req.Slug)
	case types.ContentTypeLandingPage:
		if req.ThemeChanged || req.Slug == "" {
			return Scope{Kind: ScopeFull}
		}
		return Scope{Kind: ScopeLanding, Slug: req.Slug}
	default:
		return Scope{Kind: ScopePaths, Paths: []string{paths.Root}}
	}
}

func blogScope(slug string) Scope {
	scope := Scope{Kind: ScopePaths, Paths: []string{paths.Root, paths.Blog}}
	if slug != "" {
		scope.Paths = append(scope.Paths, paths.BlogPath(slug))
	}
	return scope
}

// ScopeForAdmin maps a manual request: explicit paths win, then a landing scope, and an
// empty request covers the full site.
func ScopeForAdmin(req types.AdminRevalidateRequest) Scope {
	switch {
	case len(req.Paths) > 0:
		return Scope{Kind: ScopePaths, Paths: req.Paths}
	case req.Scope != "":
		return Scope{Kind: ScopeLanding, Slug: req.Scope}
	default:
		return Scope{Kind: ScopeFull}
	}
}
