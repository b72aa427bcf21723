package types

import (
	"strings"
	"time"
)

// RootSlug is the slug of the mandatory root landing page.
const RootSlug = "/"

// DefaultLocale is the locale used for locale-qualified webhook fields.
const DefaultLocale = "en-US"

// Content type identifiers used by the CMS.
const (
	ContentTypeLandingPage = "landingPage"
	ContentTypeDynamicPage = "dynamicPage"
	ContentTypeBlogPost    = "blogPost"
	ContentTypePricingPlan = "pricingPlan"
)

// Location determines where a dynamic page surfaces in navigation.
type Location string

const (
	LocationNone   Location = ""
	LocationHeader Location = "header"
	LocationFooter Location = "footer"
	LocationBlog   Location = "blog"
	LocationLegal  Location = "legal"
)

// ParseLocation maps a raw CMS value to a Location. Unknown values map to LocationNone.
func ParseLocation(s string) Location {
	switch Location(strings.ToLower(strings.TrimSpace(s))) {
	case LocationHeader:
		return LocationHeader
	case LocationFooter:
		return LocationFooter
	case LocationBlog:
		return LocationBlog
	case LocationLegal:
		return LocationLegal
	default:
		return LocationNone
	}
}

// LandingPage is the root content unit of a site section.
type LandingPage struct {
	ID               string
	InternalName     string
	Slug             string
	Title            string
	Description      string
	Favicon          *Asset
	Theme            Theme
	CustomTheme      *CustomTheme
	GoogleTagManager string
	Sections         []Section
	DynamicPages     []DynamicPage
	IsVisible        bool
	UpdatedAt        time.Time
}

// IsRoot reports whether this is the root landing page.
func (l *LandingPage) IsRoot() bool {
	return l != nil && l.Slug == RootSlug
}

// FindSection returns the first section of the given kind, or nil.
func (l *LandingPage) FindSection(kind SectionKind) *Section {
	if l == nil {
		return nil
	}
	for i := range l.Sections {
		if l.Sections[i].Kind == kind {
			return &l.Sections[i]
		}
	}
	return nil
}

// ReferencesPage reports whether slug appears in the landing page's dynamicPages list.
func (l *LandingPage) ReferencesPage(slug string) bool {
	if l == nil {
		return false
	}
	for _, p := range l.DynamicPages {
		if p.Slug == slug {
			return true
		}
	}
	return false
}

// DynamicPage is a leaf content entry: article, legal page or blog post.
type DynamicPage struct {
	ID             string
	Slug           string
	Title          string
	SEODescription string
	Label          string
	Content        *Node
	FeaturedImage  *Asset
	IsVisible      bool
	Location       Location
	Author         string
	PublishDate    time.Time
	Tags           []string
	UpdatedAt      time.Time

	// ParentLandingSlug is attached when the page is read through its owning landing page.
	// It is never stored on the CMS entry.
	ParentLandingSlug string
}

// IsBlog reports whether the page is located in the blog.
func (p *DynamicPage) IsBlog() bool {
	return p != nil && p.Location == LocationBlog
}

// WithParent returns a copy of the page annotated with its owning landing slug.
func (p DynamicPage) WithParent(slug string) DynamicPage {
	p.ParentLandingSlug = slug
	return p
}

// LastModified returns the most relevant modification time of the page.
func (p *DynamicPage) LastModified() time.Time {
	if p.IsBlog() && !p.PublishDate.IsZero() {
		return p.PublishDate
	}
	return p.UpdatedAt
}

// PricingPlan is a purchasable plan referenced by a pricing section.
type PricingPlan struct {
	ID              string
	Name            string
	Price           string
	Description     string
	Features        []string
	Highlighted     bool
	PromotionalText string
	PayLinkText     string
	PayLink         string
	EnableCoupons   bool
	CouponsEndpoint string
	APIConnection   *Entry
}

// Theme is the name of a predefined color theme.
type Theme string

// CustomTheme overrides the predefined theme with explicit colors.
type CustomTheme struct {
	Name            string
	PrimaryColor    string
	AccentColor     string
	BackgroundColor string
	TextColor       string
	Style           string
	BorderRadius    float64
}
