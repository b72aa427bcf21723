// Package seo builds the generated site artifacts (robots.txt, sitemap.xml and
// site.webmanifest) and the per-page metadata.
package seo

import (
	"fmt"
	"strings"

	"github.com/jonathan/landing-site/internal/paths"
)

// Disallowed are the paths crawlers never index.
var Disallowed = []string{
	"/api/*",
	"/admin/*",
	"/_next/*",
	"/static/*",
	"/*.json$",
	"/*.xml$",
	"/404",
	"/500",
}

// BlockedAgents are AI crawlers denied the whole site.
var BlockedAgents = []string{"GPTBot", "CCBot"}

// Rule is one user-agent group of robots.txt.
type Rule struct {
	UserAgent string
	Allow     []string
	Disallow  []string
}

// Robots is a robots.txt document.
type Robots struct {
	Rules   []Rule
	Sitemap string
	Host    string
}

// BuildRobots allows every route and blocks the API, admin and build-output paths.
func BuildRobots(routes []paths.Route, domain string) *Robots {
	allow := paths.NewSet(paths.Root)
	for _, r := range routes {
		allow.Add(r.Path)
	}

	rules := []Rule{{UserAgent: "*", Allow: allow.Slice(), Disallow: Disallowed}}
	for _, agent := range BlockedAgents {
		rules = append(rules, Rule{UserAgent: agent, Disallow: []string{paths.Root}})
	}
	return &Robots{
		Rules:   rules,
		Sitemap: domain + paths.Sitemap,
		Host:    domain,
	}
}

// FallbackRobots allows everything. It is served when routes cannot be resolved.
func FallbackRobots(domain string) *Robots {
	return &Robots{
		Rules:   []Rule{{UserAgent: "*", Allow: []string{paths.Root}}},
		Sitemap: domain + paths.Sitemap,
		Host:    domain,
	}
}

// String renders the robots.txt text.
func (r *Robots) String() string {
	var sb strings.Builder
	for i, rule := range r.Rules {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "User-Agent: %s\n", rule.UserAgent)
		for _, p := range rule.Allow {
			fmt.Fprintf(&sb, "Allow: %s\n", p)
		}
		for _, p := range rule.Disallow {
			fmt.Fprintf(&sb, "Disallow: %s\n", p)
		}
	}
	if r.Host != "" {
		fmt.Fprintf(&sb, "\nHost: %s\n", r.Host)
	}
	if r.Sitemap != "" {
		fmt.Fprintf(&sb, "Sitemap: %s\n", r.Sitemap)
	}
	return sb.String()
}
