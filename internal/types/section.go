package types

// SectionKind tags a section with the content type it was created from.
type SectionKind string

const (
	SectionHeader      SectionKind = "headerSection"
	SectionHero        SectionKind = "heroSection"
	SectionLeadMagnet  SectionKind = "leadMagnetSection"
	SectionPartners    SectionKind = "partnersSection"
	SectionProcess     SectionKind = "processSection"
	SectionPricing     SectionKind = "pricingSection"
	SectionFAQ         SectionKind = "faqSection"
	SectionUseCases    SectionKind = "useCasesSection"
	SectionProductDemo SectionKind = "productDemoSection"
	SectionBenefits    SectionKind = "benefitsSection"
	SectionCTA         SectionKind = "ctaSection"
	SectionFooter      SectionKind = "footerSection"
)

// SectionKinds lists every section kind in the closed set.
var SectionKinds = []SectionKind{
	SectionHeader, SectionHero, SectionLeadMagnet, SectionPartners, SectionProcess,
	SectionPricing, SectionFAQ, SectionUseCases, SectionProductDemo, SectionBenefits,
	SectionCTA, SectionFooter,
}

// Known reports whether the kind belongs to the closed set.
func (k SectionKind) Known() bool {
	for _, known := range SectionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Section is a typed content block embedded in a landing page. It is read-only.
type Section struct {
	ID    string
	Kind  SectionKind
	Entry *Entry
}

// Visible reports whether the section should be rendered. Sections without an
// isVisible field are visible.
func (s *Section) Visible() bool {
	if s == nil || s.Entry == nil {
		return false
	}
	if !s.Entry.Has("isVisible") {
		return true
	}
	return s.Entry.Bool("isVisible")
}

// Plans decodes the pricing plans of a pricing section.
func (s *Section) Plans() []PricingPlan {
	if s == nil || s.Kind != SectionPricing {
		return nil
	}
	var plans []PricingPlan
	for _, e := range s.Entry.Links("plans") {
		plans = append(plans, *PricingPlanFromEntry(e))
	}
	return plans
}
