package revalidate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/landing-site/internal/types"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		locale   string
		wantType string
		wantSlug string
		wantLoc  types.Location
		theme    bool
	}{
		{
			name:     "blog dynamic page",
			body:     `{"sys":{"id":"e1","contentType":{"sys":{"id":"dynamicPage"}}},"fields":{"slug":{"en-US":"pricing-update"},"location":{"en-US":"blog"}}}`,
			wantType: "dynamicPage",
			wantSlug: "pricing-update",
			wantLoc:  types.LocationBlog,
		},
		{
			name:     "landing with theme",
			body:     `{"sys":{"contentType":{"sys":{"id":"landingPage"}}},"fields":{"slug":{"en-US":"partners"},"theme":{"en-US":"ocean"}}}`,
			wantType: "landingPage",
			wantSlug: "partners",
			theme:    true,
		},
		{
			name:     "landing with custom theme link",
			body:     `{"sys":{"contentType":{"sys":{"id":"landingPage"}}},"fields":{"slug":{"en-US":"partners"},"customTheme":{"en-US":{"sys":{"type":"Link","linkType":"Entry","id":"t1"}}}}}`,
			wantType: "landingPage",
			wantSlug: "partners",
			theme:    true,
		},
		{
			name:     "payload locale wins",
			body:     `{"sys":{"locale":"de-DE","contentType":{"sys":{"id":"dynamicPage"}}},"fields":{"slug":{"en-US":"about","de-DE":"ueber-uns"}}}`,
			locale:   "fr-FR",
			wantType: "dynamicPage",
			wantSlug: "ueber-uns",
		},
		{
			name:     "missing locale falls back to en-US",
			body:     `{"sys":{"contentType":{"sys":{"id":"dynamicPage"}}},"fields":{"slug":{"en-US":"about"}}}`,
			locale:   "fr-FR",
			wantType: "dynamicPage",
			wantSlug: "about",
		},
		{
			name:     "plain slug",
			body:     `{"sys":{"contentType":{"sys":{"id":"blogPost"}}},"fields":{"slug":"hello"}}`,
			wantType: "blogPost",
			wantSlug: "hello",
		},
		{
			name:     "no fields",
			body:     `{"sys":{"contentType":{"sys":{"id":"heroSection"}}}}`,
			wantType: "heroSection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.body), tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, req.ContentTypeID)
			assert.Equal(t, tt.wantSlug, req.Slug)
			assert.Equal(t, tt.wantLoc, req.Location)
			assert.Equal(t, tt.theme, req.ThemeChanged)
			assert.NotNil(t, req.Raw)
		})
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"sys":`},
		{"not an object", `[1,2,3]`},
		{"missing content type", `{"sys":{"id":"e1"},"fields":{}}`},
		{"empty content type", `{"sys":{"contentType":{"sys":{"id":""}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest([]byte(tt.body), "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPayload))

			var payloadErr *PayloadError
			assert.True(t, errors.As(err, &payloadErr))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	assert.NoError(t, Authenticate("s3cret", "s3cret"))
	assert.ErrorIs(t, Authenticate("wrong", "s3cret"), ErrUnauthorized)
	assert.ErrorIs(t, Authenticate("", "s3cret"), ErrUnauthorized)
	assert.ErrorIs(t, Authenticate("s3cret", ""), ErrMisconfigured)
	assert.ErrorIs(t, Authenticate("", ""), ErrMisconfigured)
}
