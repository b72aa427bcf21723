package seo

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/landing-site/internal/cms"
	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/paths"
	"github.com/jonathan/landing-site/internal/types"
)

// RouteLister lists the visible routes of the site.
type RouteLister interface {
	Routes(ctx context.Context) ([]paths.Route, error)
}

// Service builds the site artifacts from live content.
type Service struct {
	routes  RouteLister
	content *cms.Content
	site    *config.SiteConfig
	now     func() time.Time
}

// NewService creates the artifact service.
func NewService(routes RouteLister, content *cms.Content, site *config.SiteConfig) *Service {
	return &Service{routes: routes, content: content, site: site, now: time.Now}
}

// Robots builds robots.txt. Content errors degrade to the allow-all fallback.
func (s *Service) Robots(ctx context.Context) *Robots {
	routes, err := s.routes.Routes(ctx)
	if err != nil {
		log.Printf("[seo] failed to list routes for robots.txt: %v", err)
		return FallbackRobots(s.site.Domain)
	}
	return BuildRobots(routes, s.site.Domain)
}

// Sitemap builds sitemap.xml. Content errors degrade to a sitemap holding the root only.
func (s *Service) Sitemap(ctx context.Context) *URLSet {
	routes, err := s.routes.Routes(ctx)
	if err != nil {
		log.Printf("[seo] failed to list routes for sitemap.xml: %v", err)
		routes = []paths.Route{{Path: paths.Root, Kind: paths.KindRoot}}
	}
	return BuildSitemap(routes, s.site.Domain, s.now())
}

// Manifest builds site.webmanifest. A missing root or CMS failure yields the static fallback.
func (s *Service) Manifest(ctx context.Context) *Manifest {
	var root *types.LandingPage
	if s.content != nil {
		var err error
		root, err = s.content.LandingPage(ctx, types.RootSlug)
		if err != nil {
			log.Printf("[seo] failed to load root landing for manifest: %v", err)
			root = nil
		}
	}
	return BuildManifest(root, s.site.Name)
}
