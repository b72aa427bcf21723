// Package cmstest provides a small content graph for tests of packages that read the CMS.
package cmstest

import (
	"github.com/jonathan/landing-site/internal/cms"
)

// Entries returns the raw entries and assets of the test site:
//
//	/                    root landing (header, hero, pricing, footer), children about + privacy
//	/partners            landing with children case-study-1, first-post (blog) and partners
//	/promo               landing whose only child is also named promo
//	/hidden              invisible landing
//	/blog/first-post     visible blog post, also referenced by partners
//	/blog/second-post    visible blog post referenced by no landing
//	/blog/draft-post     invisible blog post
//	unlisted, standalone dynamic pages referenced by no landing
func Entries() []map[string]any {
	return []map[string]any{
		cms.NewAsset("favicon", "favicon.png", "//images.ctfassets.net/space/favicon.png"),
		cms.NewAsset("logo", "logo.svg", "//images.ctfassets.net/space/logo.svg"),

		cms.NewEntry("root", "landingPage", map[string]any{
			"internalName": "Home",
			"slug":         "/",
			"title":        "GoLean Home",
			"description":  "Lean software for growing teams",
			"isVisible":    true,
			"theme":        "oceanDark",
			"favicon":      cms.AssetLink("favicon"),
			"sections":     cms.Links("hdr-root", "hero-root", "pricing-root", "ftr-root"),
			"dynamicPages": cms.Links("about", "privacy"),
		}),
		cms.NewEntry("partners", "landingPage", map[string]any{
			"slug":         "partners",
			"title":        "Partners",
			"isVisible":    true,
			"sections":     cms.Links("hdr-partners", "ftr-partners"),
			"dynamicPages": cms.Links("case-study-1", "first-post", "partners-overview"),
		}),
		cms.NewEntry("promo", "landingPage", map[string]any{
			"slug":         "promo",
			"title":        "Promo",
			"isVisible":    true,
			"sections":     cms.Links("hero-root"),
			"dynamicPages": cms.Links("promo-page"),
		}),
		cms.NewEntry("hidden", "landingPage", map[string]any{
			"slug":      "hidden",
			"title":     "Hidden",
			"isVisible": false,
		}),

		cms.NewEntry("hdr-root", "headerSection", map[string]any{"title": "GoLean", "logo": cms.AssetLink("logo")}),
		cms.NewEntry("hero-root", "heroSection", map[string]any{
			"title":       "Ship faster",
			"subtitle":    "Everything you need",
			"description": "Build **lean** products.",
			"ctaText":     "Start now",
			"ctaUrl":      "#pricing",
		}),
		cms.NewEntry("pricing-root", "pricingSection", map[string]any{
			"title": "Pricing",
			"plans": cms.Links("plan-pro"),
		}),
		cms.NewEntry("ftr-root", "footerSection", map[string]any{"copyright": "© GoLean"}),
		cms.NewEntry("hdr-partners", "headerSection", map[string]any{"title": "Partners Header"}),
		cms.NewEntry("ftr-partners", "footerSection", map[string]any{"copyright": "© Partners"}),

		cms.NewEntry("plan-pro", "pricingPlan", map[string]any{
			"name":            "Pro",
			"price":           "$49.99 USD",
			"features":        []any{"Unlimited seats", "Priority support"},
			"payLink":         "https://pay.example.com/pro",
			"payLinkText":     "Buy Pro",
			"enableCoupons":   true,
			"couponsEndpoint": "https://coupons.example.com/validate",
			"apiConnection":   cms.Link("api-conn"),
		}),
		cms.NewEntry("plan-free", "pricingPlan", map[string]any{
			"name":    "Free",
			"price":   "0",
			"payLink": "https://pay.example.com/free",
		}),
		cms.NewEntry("api-conn", "apiConnection", map[string]any{"name": "gateway"}),

		cms.NewEntry("about", "dynamicPage", map[string]any{
			"slug":      "about",
			"title":     "About us",
			"isVisible": true,
			"location":  "header",
			"content":   Document("We build lean software."),
		}),
		cms.NewEntry("privacy", "dynamicPage", map[string]any{
			"slug":      "privacy",
			"title":     "Privacy Policy",
			"isVisible": true,
			"location":  "legal",
			"content":   Document("Your data stays yours."),
		}),
		cms.NewEntry("case-study-1", "dynamicPage", map[string]any{
			"slug":      "case-study-1",
			"title":     "Case Study",
			"isVisible": true,
			"content":   Document("How Acme shipped faster."),
		}),
		cms.NewEntry("partners-overview", "dynamicPage", map[string]any{
			"slug":      "partners",
			"title":     "Partners overview",
			"isVisible": true,
		}),
		cms.NewEntry("promo-page", "dynamicPage", map[string]any{
			"slug":      "promo",
			"title":     "Promo details",
			"isVisible": true,
		}),
		cms.NewEntry("unlisted", "dynamicPage", map[string]any{
			"slug":      "unlisted",
			"title":     "Unlisted",
			"isVisible": true,
			"content":   Document("Not linked from any landing."),
		}),
		cms.NewEntry("standalone", "dynamicPage", map[string]any{
			"slug":      "standalone",
			"title":     "Standalone",
			"isVisible": false,
			"location":  "footer",
		}),
		cms.NewEntry("first-post", "dynamicPage", map[string]any{
			"slug":        "first-post",
			"title":       "First post",
			"isVisible":   true,
			"location":    "blog",
			"author":      "GoLean Team",
			"publishDate": "2024-03-01T10:00:00Z",
			"tags":        []any{"go", "news"},
			"content":     Document("Hello from the blog."),
		}),
		cms.NewEntry("second-post", "dynamicPage", map[string]any{
			"slug":        "second-post",
			"title":       "Second post",
			"isVisible":   true,
			"location":    "blog",
			"publishDate": "2024-04-01T10:00:00Z",
			"tags":        []any{"Go", "releases"},
			"content":     Document("Another update."),
		}),
		cms.NewEntry("draft-post", "dynamicPage", map[string]any{
			"slug":        "draft-post",
			"title":       "Draft",
			"isVisible":   false,
			"location":    "blog",
			"publishDate": "2024-05-01T10:00:00Z",
		}),
	}
}

// Repository returns a memory repository loaded with Entries.
func Repository() *cms.MemoryRepository {
	return cms.NewMemoryRepository(Entries()...)
}

// Document builds a rich-text document with one paragraph.
func Document(text string) map[string]any {
	return map[string]any{
		"nodeType": "document",
		"data":     map[string]any{},
		"content": []any{
			map[string]any{
				"nodeType": "paragraph",
				"data":     map[string]any{},
				"content": []any{
					map[string]any{"nodeType": "text", "value": text, "marks": []any{}, "data": map[string]any{}},
				},
			},
		},
	}
}
