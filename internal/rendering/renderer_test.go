package rendering

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/landing-site/internal/cms"
	"github.com/jonathan/landing-site/internal/cms/cmstest"
	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/site"
	"github.com/jonathan/landing-site/internal/types"
)

func testSite() *config.SiteConfig {
	return &config.SiteConfig{
		Domain:       "https://golean.example",
		Name:         "GoLean",
		Locale:       "en-US",
		SupportEmail: "help@golean.example",
	}
}

func resolve(t *testing.T, path string) *site.Page {
	t.Helper()
	resolver := site.NewResolver(cms.NewContent(cmstest.Repository()), 1)
	page, err := resolver.Resolve(context.Background(), path)
	require.NoError(t, err)
	return page
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(testSite())
	require.NoError(t, err)
	return r
}

func TestRenderer_Landing(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Page(resolve(t, "/"))
	require.NoError(t, err)
	assert.Contains(t, out, "<title>GoLean Home</title>")
	assert.Contains(t, out, `<link rel="canonical" href="https://golean.example">`)
	assert.Contains(t, out, "--primary: 199 89% 48%;")
	assert.Contains(t, out, "Build <strong>lean</strong> products.")
	assert.Contains(t, out, `<h3>Pro</h3>`)
	assert.Contains(t, out, `data-plan-id="plan-pro"`)
	assert.Contains(t, out, `name="couponCode"`)
	assert.Contains(t, out, `href="/about">About us</a>`)
	assert.Contains(t, out, `href="/privacy">Privacy Policy</a>`)
	assert.Contains(t, out, "© GoLean")
	assert.Contains(t, out, `"@type":"Organization"`)
}

func TestRenderer_NestedPage(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Page(resolve(t, "/partners/case-study-1"))
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Case Study</h1>")
	assert.Contains(t, out, "How Acme shipped faster.")
	assert.Contains(t, out, "Partners Header")
	assert.Contains(t, out, "© Partners")
	assert.NotContains(t, out, "© GoLean")
}

func TestRenderer_Blog(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Page(resolve(t, "/blog"))
	require.NoError(t, err)
	assert.Contains(t, out, `href="/blog/second-post"`)
	assert.Contains(t, out, `href="/blog?page=2"`)
	assert.Contains(t, out, "Another update.")
	assert.Contains(t, out, "<li>Releases</li>")

	out, err = r.Page(resolve(t, "/blog/first-post"))
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>First post</h1>")
	assert.Contains(t, out, "March 1, 2024")
	assert.Contains(t, out, `"@type":"BlogPosting"`)
	assert.Contains(t, out, `<meta property="og:type" content="article">`)
	assert.Contains(t, out, `href="/blog/second-post">Second post</a>`)
}

func TestRenderer_StatusPages(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.NotFound(nil)
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>404</h1>")
	assert.Contains(t, out, `content="noindex"`)

	out, err = r.Maintenance()
	require.NoError(t, err)
	assert.Contains(t, out, "Site under maintenance")
	assert.Contains(t, out, "mailto:help@golean.example")

	out, err = r.Error(500, "<b>boom</b>")
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;b&gt;boom&lt;/b&gt;")
}

func TestSectionViews_SkipsUnknownAndInvisible(t *testing.T) {
	sections := []types.Section{
		{ID: "a", Kind: types.SectionHero, Entry: &types.Entry{Fields: map[string]any{"sectionId": "start"}}},
		{ID: "b", Kind: "carouselSection", Entry: &types.Entry{Fields: map[string]any{}}},
		{ID: "c", Kind: types.SectionFAQ, Entry: &types.Entry{Fields: map[string]any{"isVisible": false}}},
		{ID: "d", Kind: types.SectionCTA, Entry: &types.Entry{Fields: map[string]any{"isVisible": true}}},
	}

	views := sectionViews(nil, sections)
	require.Len(t, views, 2)
	assert.Equal(t, "start", views[0].Anchor)
	assert.Equal(t, "d", views[1].Anchor)
	assert.Equal(t, 3, views[1].Index)
}

func TestNewFromDir(t *testing.T) {
	_, err := NewFromDir(testSite(), "/nonexistent/templates")
	var templateErr *TemplateError
	require.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "template directory not found")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout.gohtml"), []byte(`{{define "layout"}}{{.Body}}{{end}}`), 0644))
	_, err = NewFromDir(testSite(), dir)
	require.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "missing from template set")
	assert.NotEmpty(t, templateErr.Template)

	for _, name := range []string{"pages.gohtml", "sections.gohtml"} {
		raw, err := embedded.ReadFile("templates/" + name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), raw, 0644))
	}
	r, err := NewFromDir(testSite(), dir)
	require.NoError(t, err)
	out, err := r.NotFound(nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "<html")
	assert.Contains(t, out, "404")
}

func TestRenderer_UnknownPageKind(t *testing.T) {
	r, err := New(testSite())
	require.NoError(t, err)

	_, err = r.Page(&site.Page{Kind: "gallery", Path: "/gallery"})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "cannot render /gallery: unknown page kind \"gallery\"", err.Error())
}
