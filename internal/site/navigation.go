package site

import (
	"github.com/jonathan/landing-site/internal/types"
)

// Navigation groups the visible dynamic pages of a landing by where they surface.
type Navigation struct {
	Header []types.DynamicPage
	Footer []types.DynamicPage
	Legal  []types.DynamicPage
}

// NavigationFor collects the visible, non-blog pages owned by landingSlug. When the
// landing owns none, the pages of every landing are used.
func NavigationFor(pages []types.DynamicPage, landingSlug string) Navigation {
	var owned []types.DynamicPage
	for _, p := range pages {
		if p.ParentLandingSlug == landingSlug {
			owned = append(owned, p)
		}
	}
	if len(owned) == 0 {
		owned = pages
	}

	var nav Navigation
	seen := make(map[string]bool)
	for _, p := range owned {
		if !p.IsVisible || p.IsBlog() {
			continue
		}
		key := string(p.Location) + "|" + p.Slug
		if seen[key] {
			continue
		}
		seen[key] = true
		switch p.Location {
		case types.LocationHeader:
			nav.Header = append(nav.Header, p)
		case types.LocationFooter:
			nav.Footer = append(nav.Footer, p)
		case types.LocationLegal:
			nav.Legal = append(nav.Legal, p)
		}
	}
	return nav
}
