package seo

import (
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/site"
	"github.com/jonathan/landing-site/internal/types"
)

// Metadata is the head content of a rendered page.
type Metadata struct {
	Title       string
	Description string
	Canonical   string
	SiteName    string
	Locale      string // Open Graph form, e.g. en_US
	Lang        string // BCP 47 form, e.g. en-US
	Type        string // website or article
	Image       string
	ImageAlt    string
	Favicon     string
	Published   time.Time
	Author      string
	// JSONLD holds encoded structured-data documents.
	JSONLD []string
}

// MaintenanceMetadata is used when the CMS cannot be reached.
func MaintenanceMetadata(cfg *config.SiteConfig) Metadata {
	return Metadata{
		Title:       "Site under maintenance",
		Description: "We are experiencing technical difficulties.",
		SiteName:    cfg.Name,
		Lang:        langTag(cfg.Locale),
		Locale:      ogLocale(cfg.Locale),
		Type:        "website",
	}
}

// MetadataFor derives the metadata of a resolved page.
func MetadataFor(page *site.Page, cfg *config.SiteConfig) Metadata {
	m := Metadata{
		SiteName:  cfg.Name,
		Lang:      langTag(cfg.Locale),
		Locale:    ogLocale(cfg.Locale),
		Type:      "website",
		Canonical: cfg.Domain + page.Path,
	}
	if page.Path == "/" {
		m.Canonical = cfg.Domain
	}

	root := page.Root
	if root != nil {
		if root.Title != "" {
			m.SiteName = root.Title
		}
		m.Favicon = root.Favicon.URL()
	}
	logo, logoAlt := headerLogo(page.Header)
	if m.Favicon == "" {
		m.Favicon = logo
	}

	switch page.Kind {
	case site.KindLanding:
		m.Title = page.Landing.Title
		m.Description = page.Landing.Description
		if page.Landing.Favicon != nil {
			m.Favicon = page.Landing.Favicon.URL()
		}
		m.Image, m.ImageAlt = logo, logoAlt
		m.addJSONLD(organization(page.Landing, cfg.Domain, logo))

	case site.KindBlogIndex:
		m.Title = "Blog | " + m.SiteName
		m.Description = "Latest articles from " + m.SiteName
		if page.Blog != nil && len(page.Blog.Posts) > 0 {
			latest := page.Blog.Posts[0]
			if latest.SEODescription != "" {
				m.Description = latest.SEODescription
			}
			if latest.FeaturedImage != nil {
				m.Image, m.ImageAlt = latest.FeaturedImage.URL(), latest.Title
			}
		}

	case site.KindBlogPost, site.KindDynamic:
		p := page.Dynamic
		m.Title = p.Title
		if page.Kind == site.KindBlogPost {
			m.Title = p.Title + " | Blog"
			m.Type = "article"
			m.Published = p.PublishDate
			m.Author = p.Author
		}
		m.Description = p.SEODescription
		if m.Description == "" {
			m.Description = excerptOf(p.Content, 160)
		}
		if p.FeaturedImage != nil {
			m.Image, m.ImageAlt = p.FeaturedImage.URL(), p.Title
		} else {
			m.Image, m.ImageAlt = logo, logoAlt
		}
		if page.Kind == site.KindBlogPost {
			m.addJSONLD(blogPosting(p, m.Description))
		}
	}

	if m.Title == "" {
		m.Title = m.SiteName
	}
	return m
}

func (m *Metadata) addJSONLD(doc map[string]any) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	m.JSONLD = append(m.JSONLD, string(raw))
}

func organization(landing *types.LandingPage, domain, logo string) map[string]any {
	doc := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Organization",
		"name":        landing.Title,
		"description": landing.Description,
		"url":         domain,
	}
	if logo != "" {
		doc["logo"] = logo
	}
	return doc
}

func blogPosting(post *types.DynamicPage, description string) map[string]any {
	author := post.Author
	if author == "" {
		author = "Anonymous"
	}
	doc := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    post.Title,
		"description": description,
		"author":      map[string]any{"@type": "Person", "name": author},
	}
	if post.FeaturedImage != nil {
		doc["image"] = post.FeaturedImage.URL()
	}
	if !post.PublishDate.IsZero() {
		doc["datePublished"] = post.PublishDate.Format(time.RFC3339)
	}
	if !post.UpdatedAt.IsZero() {
		doc["dateModified"] = post.UpdatedAt.Format(time.RFC3339)
	}
	return doc
}

func headerLogo(header *types.Section) (string, string) {
	if header == nil || header.Entry == nil {
		return "", ""
	}
	logo := header.Entry.Asset("logo")
	if logo == nil {
		return "", ""
	}
	alt := logo.Title
	if alt == "" {
		alt = "Logo"
	}
	return logo.URL(), alt
}

func excerptOf(doc *types.Node, max int) string {
	text := strings.Join(strings.Fields(doc.PlainText()), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}

func langTag(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	return tag.String()
}

func ogLocale(locale string) string {
	return strings.ReplaceAll(langTag(locale), "-", "_")
}
