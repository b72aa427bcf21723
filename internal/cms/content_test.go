package cms_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/landing-site/internal/cms"
	"github.com/jonathan/landing-site/internal/cms/cmstest"
	"github.com/jonathan/landing-site/internal/types"
)

func newContent() (*cms.Content, *cms.MemoryRepository) {
	repo := cmstest.Repository()
	return cms.NewContent(repo), repo
}

func TestContent_LandingPage(t *testing.T) {
	content, _ := newContent()
	ctx := context.Background()

	root, err := content.LandingPage(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.True(t, root.IsRoot())
	assert.Equal(t, types.Theme("oceanDark"), root.Theme)
	assert.Equal(t, "https://images.ctfassets.net/space/favicon.png", root.Favicon.URL())
	for _, child := range root.DynamicPages {
		assert.Equal(t, "/", child.ParentLandingSlug)
	}

	missing, err := content.LandingPage(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContent_DynamicPage(t *testing.T) {
	content, _ := newContent()
	ctx := context.Background()

	tests := []struct {
		name       string
		slug       string
		parent     string
		wantTitle  string
		wantParent string
	}{
		{name: "blog parent finds blog post", slug: "first-post", parent: "blog", wantTitle: "First post"},
		{name: "blog parent ignores non-blog", slug: "about", parent: "blog"},
		{name: "landing parent reference", slug: "case-study-1", parent: "partners", wantTitle: "Case Study", wantParent: "partners"},
		{name: "landing parent skips blog reference", slug: "first-post", parent: "partners"},
		{name: "global search", slug: "unlisted", parent: "/", wantTitle: "Unlisted"},
		{name: "global fallback under unrelated parent", slug: "unlisted", parent: "partners", wantTitle: "Unlisted"},
		{name: "missing", slug: "nope", parent: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := content.DynamicPage(ctx, tt.slug, tt.parent)
			require.NoError(t, err)
			if tt.wantTitle == "" {
				assert.Nil(t, page)
				return
			}
			require.NotNil(t, page)
			assert.Equal(t, tt.wantTitle, page.Title)
			assert.Equal(t, tt.wantParent, page.ParentLandingSlug)
		})
	}
}

func TestContent_NavigationPages(t *testing.T) {
	content, _ := newContent()

	pages, err := content.NavigationPages(context.Background())
	require.NoError(t, err)

	parents := map[string]string{}
	for _, p := range pages {
		parents[p.Slug] = p.ParentLandingSlug
	}
	assert.Equal(t, "/", parents["about"])
	assert.Equal(t, "partners", parents["case-study-1"])
	assert.Equal(t, "promo", parents["promo"])
	assert.NotContains(t, parents, "unlisted")
}

func TestContent_Blogs(t *testing.T) {
	content, _ := newContent()
	ctx := context.Background()

	list := content.Blogs(ctx, 1, 1)
	assert.Equal(t, 2, list.Total, "invisible posts are excluded")
	assert.Equal(t, 2, list.Pages)
	require.Len(t, list.Posts, 1)
	assert.Equal(t, "second-post", list.Posts[0].Slug, "newest first")

	recent := content.RecentBlogs(ctx, 3)
	assert.Len(t, recent, 2)

	all, err := content.BlogPages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.Equal(t, []string{"Go", "News", "Releases"}, content.BlogCategories(ctx))
	legal := content.LegalPages(ctx)
	require.Len(t, legal, 1)
	assert.Equal(t, "privacy", legal[0].Slug)
}

func TestContent_SecondaryLookupsDegrade(t *testing.T) {
	content, repo := newContent()
	repo.FailWith(&cms.UnavailableError{Message: "down"})
	ctx := context.Background()

	assert.Empty(t, content.Blogs(ctx, 1, 6).Posts)
	assert.Empty(t, content.RecentBlogs(ctx, 3))
	assert.Empty(t, content.BlogCategories(ctx))
	assert.Empty(t, content.LegalPages(ctx))

	_, err := content.LandingPage(ctx, "/")
	assert.True(t, errors.Is(err, cms.ErrUnavailable), "primary lookups propagate")
	assert.Error(t, content.CheckConnection(ctx))
}

func TestContent_PricingPlan(t *testing.T) {
	content, _ := newContent()
	ctx := context.Background()

	plan, err := content.PricingPlan(ctx, "plan-pro")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "$49.99 USD", plan.Price)
	assert.NotNil(t, plan.APIConnection)

	missing, err := content.PricingPlan(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
