package revalidate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPInvalidator(t *testing.T) {
	var gotPath, gotAuth, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Query().Get("path")
		gotAuth = r.Header.Get("Authorization")
		if gotPath == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	inv, err := NewHTTPInvalidator(srv.URL+"/api/cache", "tok", nil)
	require.NoError(t, err)

	require.NoError(t, inv.Invalidate(context.Background(), "/partners/case-study-1"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/partners/case-study-1", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)

	err = inv.Invalidate(context.Background(), "/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/broken")
}

func TestHTTPInvalidator_ExistingQuery(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
	}))
	defer srv.Close()

	inv, err := NewHTTPInvalidator(srv.URL+"/api/cache?tenant=a", "", nil)
	require.NoError(t, err)
	require.NoError(t, inv.Invalidate(context.Background(), "/blog"))
	assert.Equal(t, []string{"a"}, query["tenant"])
	assert.Equal(t, []string{"/blog"}, query["path"])
}

func TestNewHTTPInvalidator_InvalidEndpoint(t *testing.T) {
	_, err := NewHTTPInvalidator("not a url", "", nil)
	assert.Error(t, err)
	_, err = NewHTTPInvalidator("/relative", "", nil)
	assert.Error(t, err)
}
