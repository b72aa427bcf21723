package types

import "encoding/json"

// LandingPageFromEntry decodes a landing page. Nested dynamic pages are annotated with
// the landing slug as their parent.
func LandingPageFromEntry(e *Entry) *LandingPage {
	if e == nil {
		return nil
	}
	lp := &LandingPage{
		ID:               e.Sys.ID,
		InternalName:     e.String("internalName"),
		Slug:             e.String("slug"),
		Title:            e.String("title"),
		Description:      e.String("description"),
		Favicon:          e.Asset("favicon"),
		Theme:            Theme(e.String("theme")),
		GoogleTagManager: e.String("googleTagManager"),
		IsVisible:        e.Bool("isVisible"),
		UpdatedAt:        e.Sys.UpdatedAt,
	}
	if ct := e.Link("customTheme"); ct != nil {
		lp.CustomTheme = &CustomTheme{
			Name:            ct.String("name"),
			PrimaryColor:    ct.String("primaryColor"),
			AccentColor:     ct.String("accentColor"),
			BackgroundColor: ct.String("backgroundColor"),
			TextColor:       ct.String("textColor"),
			Style:           ct.String("style"),
			BorderRadius:    ct.Number("borderRadius"),
		}
	}
	for _, s := range e.Links("sections") {
		lp.Sections = append(lp.Sections, Section{
			ID:    s.Sys.ID,
			Kind:  SectionKind(s.Sys.ContentTypeID),
			Entry: s,
		})
	}
	for _, d := range e.Links("dynamicPages") {
		if page := DynamicPageFromEntry(d); page != nil {
			lp.DynamicPages = append(lp.DynamicPages, page.WithParent(lp.Slug))
		}
	}
	return lp
}

// DynamicPageFromEntry decodes a dynamic page without any parent annotation.
func DynamicPageFromEntry(e *Entry) *DynamicPage {
	if e == nil {
		return nil
	}
	return &DynamicPage{
		ID:             e.Sys.ID,
		Slug:           e.String("slug"),
		Title:          e.String("title"),
		SEODescription: e.String("seoDescription"),
		Label:          e.String("label"),
		Content:        DocumentFromField(e.Fields["content"]),
		FeaturedImage:  e.Asset("featuredImage"),
		IsVisible:      e.Bool("isVisible"),
		Location:       ParseLocation(e.String("location")),
		Author:         e.String("author"),
		PublishDate:    parseTime(e.String("publishDate")),
		Tags:           e.Strings("tags"),
		UpdatedAt:      e.Sys.UpdatedAt,
	}
}

// PricingPlanFromEntry decodes a pricing plan.
func PricingPlanFromEntry(e *Entry) *PricingPlan {
	if e == nil {
		return nil
	}
	return &PricingPlan{
		ID:              e.Sys.ID,
		Name:            e.String("name"),
		Price:           e.String("price"),
		Description:     e.String("description"),
		Features:        e.Strings("features"),
		Highlighted:     e.Bool("highlightedText"),
		PromotionalText: e.String("promotionalText"),
		PayLinkText:     e.String("payLinkText"),
		PayLink:         e.String("payLink"),
		EnableCoupons:   e.Bool("enableCoupons"),
		CouponsEndpoint: e.String("couponsEndpoint"),
		APIConnection:   e.Link("apiConnection"),
	}
}

// DocumentFromField decodes a rich-text field. It returns nil when the field is not a document.
func DocumentFromField(v any) *Node {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var doc Node
	if err := json.Unmarshal(raw, &doc); err != nil || doc.NodeType != NodeDocument {
		return nil
	}
	return &doc
}
