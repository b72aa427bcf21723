package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_WebhookPayload(t *testing.T) {
	tests := []struct {
		name    string
		doc     any
		wantErr bool
	}{
		{
			name: "localized slug",
			doc: map[string]any{
				"sys":    map[string]any{"contentType": map[string]any{"sys": map[string]any{"id": "dynamicPage"}}},
				"fields": map[string]any{"slug": map[string]any{"en-US": "post"}},
			},
		},
		{
			name: "plain slug",
			doc: map[string]any{
				"sys":    map[string]any{"contentType": map[string]any{"sys": map[string]any{"id": "landingPage"}}},
				"fields": map[string]any{"slug": "partners"},
			},
		},
		{
			name: "no fields",
			doc:  map[string]any{"sys": map[string]any{"contentType": map[string]any{"sys": map[string]any{"id": "x"}}}},
		},
		{name: "missing sys", doc: map[string]any{"fields": map[string]any{}}, wantErr: true},
		{name: "missing content type", doc: map[string]any{"sys": map[string]any{"id": "abc"}}, wantErr: true},
		{
			name:    "empty content type id",
			doc:     map[string]any{"sys": map[string]any{"contentType": map[string]any{"sys": map[string]any{"id": ""}}}},
			wantErr: true,
		},
		{name: "not an object", doc: []any{1, 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(WebhookPayload, tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.NotEmpty(t, validationErr.Summary())
		})
	}
}

func TestValidate_Fixture(t *testing.T) {
	ok := map[string]any{
		"entries": []any{map[string]any{"sys": map[string]any{"id": "root", "contentType": "landingPage"}}},
	}
	assert.NoError(t, Validate(Fixture, ok))

	bad := map[string]any{"entries": []any{map[string]any{"fields": map[string]any{}}}}
	assert.Error(t, Validate(Fixture, bad))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", map[string]any{})
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"]}`
	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{}`)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Error(), "name")
}
