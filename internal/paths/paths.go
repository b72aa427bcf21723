// Package paths computes the set of site routes implied by the current content graph.
package paths

import (
	"strings"

	"github.com/jonathan/landing-site/internal/types"
)

// Fixed routes.
const (
	Root    = "/"
	Blog    = "/blog"
	Sitemap = "/sitemap.xml"
	Robots  = "/robots.txt"
)

// Fallback returns the minimal safe set used when content cannot be read.
func Fallback() *Set {
	return NewSet(Root, Blog)
}

// Normalize returns p with a leading slash, repeated slashes collapsed and no trailing
// slash. Blank input yields "".
func Normalize(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	segments := Segments(p)
	if len(segments) == 0 {
		return Root
	}
	return "/" + strings.Join(segments, "/")
}

// Segments splits a path into its non-empty segments.
func Segments(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// Join returns the route of child under parent. A child whose slug repeats the last
// segment of its parent collapses onto the parent route.
func Join(parent, child string) string {
	parentSegs := Segments(parent)
	childSegs := Segments(child)
	if len(parentSegs) > 0 && len(childSegs) > 0 && parentSegs[len(parentSegs)-1] == childSegs[0] {
		childSegs = childSegs[1:]
	}
	return Normalize("/" + strings.Join(append(parentSegs, childSegs...), "/"))
}

// LandingPath returns the route of a landing page.
func LandingPath(slug string) string {
	return Normalize("/" + slug)
}

// BlogPath returns the route of a blog post.
func BlogPath(slug string) string {
	return Join(Blog, slug)
}

// PagePath returns the effective route of a dynamic page: blog posts are flat under
// /blog, pages with a parent nest under it, others sit at the top level.
func PagePath(page types.DynamicPage) string {
	switch {
	case page.IsBlog():
		return BlogPath(page.Slug)
	case page.ParentLandingSlug != "" && page.ParentLandingSlug != types.RootSlug:
		return Join(page.ParentLandingSlug, page.Slug)
	default:
		return LandingPath(page.Slug)
	}
}
