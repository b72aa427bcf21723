package seo

import (
	"github.com/jonathan/landing-site/internal/types"
)

// Icon is a web app manifest icon.
type Icon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// Manifest is a site.webmanifest document.
type Manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description,omitempty"`
	Icons           []Icon `json:"icons"`
	ThemeColor      string `json:"theme_color"`
	BackgroundColor string `json:"background_color"`
	Display         string `json:"display"`
}

var defaultIcons = []Icon{
	{Src: "/android-chrome-192x192.png", Sizes: "192x192", Type: "image/png"},
	{Src: "/android-chrome-512x512.png", Sizes: "512x512", Type: "image/png"},
}

// BuildManifest derives the manifest from the root landing page. A nil root yields the
// static fallback named after the site.
func BuildManifest(root *types.LandingPage, siteName string) *Manifest {
	m := &Manifest{
		Name:            siteName,
		ShortName:       siteName,
		Icons:           defaultIcons,
		ThemeColor:      "#ffffff",
		BackgroundColor: "#ffffff",
		Display:         "standalone",
	}
	if root == nil {
		return m
	}

	if root.Title != "" {
		m.Name = root.Title
		m.ShortName = root.Title
	}
	m.Description = root.Description
	if m.Description == "" {
		m.Description = "Landing Page"
	}
	if favicon := root.Favicon.URL(); favicon != "" {
		m.Icons = []Icon{
			{Src: favicon, Sizes: "192x192", Type: "image/png"},
			{Src: favicon, Sizes: "512x512", Type: "image/png"},
		}
	}
	return m
}
