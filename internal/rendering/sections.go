package rendering

import (
	"log"

	"github.com/jonathan/landing-site/internal/site"
	"github.com/jonathan/landing-site/internal/types"
)

// sectionTemplates maps every known section kind to its template.
var sectionTemplates = map[types.SectionKind]string{
	types.SectionHeader:      "section-header",
	types.SectionHero:        "section-hero",
	types.SectionLeadMagnet:  "section-lead-magnet",
	types.SectionPartners:    "section-partners",
	types.SectionProcess:     "section-process",
	types.SectionPricing:     "section-pricing",
	types.SectionFAQ:         "section-faq",
	types.SectionUseCases:    "section-use-cases",
	types.SectionProductDemo: "section-product-demo",
	types.SectionBenefits:    "section-benefits",
	types.SectionCTA:         "section-cta",
	types.SectionFooter:      "section-footer",
}

// SectionView is the data passed to a section template.
type SectionView struct {
	Index int
	// Anchor is the element id, taken from the sectionId field when present.
	Anchor  string
	Section *types.Section
	Entry   *types.Entry
	Page    *site.Page
}

// Plans returns the pricing plans of the section.
func (v SectionView) Plans() []types.PricingPlan {
	return v.Section.Plans()
}

// sectionViews lists the renderable sections of a landing in order. Invisible sections
// and unknown kinds are skipped.
func sectionViews(page *site.Page, sections []types.Section) []SectionView {
	views := make([]SectionView, 0, len(sections))
	for i := range sections {
		s := &sections[i]
		if _, ok := sectionTemplates[s.Kind]; !ok {
			log.Printf("[render] skipping section %s of unknown kind %q", s.ID, s.Kind)
			continue
		}
		if !s.Visible() {
			continue
		}
		anchor := s.Entry.String("sectionId")
		if anchor == "" {
			anchor = s.ID
		}
		views = append(views, SectionView{Index: i, Anchor: anchor, Section: s, Entry: s.Entry, Page: page})
	}
	return views
}
