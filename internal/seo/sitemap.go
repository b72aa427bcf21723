package seo

import (
	"encoding/xml"
	"time"

	"github.com/jonathan/landing-site/internal/paths"
)

// SitemapNamespace is the sitemaps.org schema namespace.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL is one sitemap entry.
type URL struct {
	Loc             string  `xml:"loc"`
	LastModified    string  `xml:"lastmod,omitempty"`
	ChangeFrequency string  `xml:"changefreq,omitempty"`
	Priority        float64 `xml:"priority"`
}

// URLSet is a sitemap.xml document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// frequency and priority per route kind.
var sitemapPolicy = map[paths.RouteKind]struct {
	freq     string
	priority float64
}{
	paths.KindRoot:      {"daily", 1.0},
	paths.KindLanding:   {"weekly", 0.9},
	paths.KindBlogIndex: {"daily", 0.7},
	paths.KindPage:      {"weekly", 0.8},
	paths.KindBlogPost:  {"monthly", 0.6},
	paths.KindLegal:     {"monthly", 0.5},
}

// BuildSitemap emits one entry per route. Routes without a modification time use now.
func BuildSitemap(routes []paths.Route, domain string, now time.Time) *URLSet {
	set := &URLSet{XMLNS: SitemapNamespace}
	for _, r := range routes {
		policy, ok := sitemapPolicy[r.Kind]
		if !ok {
			policy = sitemapPolicy[paths.KindPage]
		}
		modified := r.LastModified
		if modified.IsZero() {
			modified = now
		}
		loc := domain + r.Path
		if r.Path == paths.Root {
			loc = domain
		}
		set.URLs = append(set.URLs, URL{
			Loc:             loc,
			LastModified:    modified.UTC().Format(time.RFC3339),
			ChangeFrequency: policy.freq,
			Priority:        policy.priority,
		})
	}
	return set
}

// Marshal renders the sitemap with the XML declaration.
func (s *URLSet) Marshal() ([]byte, error) {
	out, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
