package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/landing-site/internal/bg"
	"github.com/jonathan/landing-site/internal/cms"
	"github.com/jonathan/landing-site/internal/cms/cmstest"
	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/paths"
	"github.com/jonathan/landing-site/internal/payment"
	"github.com/jonathan/landing-site/internal/rendercache"
	"github.com/jonathan/landing-site/internal/rendering"
	"github.com/jonathan/landing-site/internal/revalidate"
	"github.com/jonathan/landing-site/internal/seo"
	"github.com/jonathan/landing-site/internal/server/ratelimit"
	"github.com/jonathan/landing-site/internal/site"
)

const testSecret = "webhook-secret"

// invalidationLog records invalidated paths and fails the paths listed in fail.
type invalidationLog struct {
	mu    sync.Mutex
	paths []string
	fail  map[string]bool
}

func (l *invalidationLog) Invalidate(_ context.Context, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, path)
	if l.fail[path] {
		return errors.New("cdn rejected purge")
	}
	return nil
}

func (l *invalidationLog) calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

type testServer struct {
	*Server
	repo          *cms.MemoryRepository
	cache         *rendercache.LRUStore
	invalidations *invalidationLog
	background    *bg.Tracked
}

type serverOption func(*Deps)

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	repo := cmstest.Repository()
	content := cms.NewContent(repo)
	siteCfg := &config.SiteConfig{
		Domain:       "https://golean.example",
		Name:         "GoLean",
		Locale:       "en-US",
		PageTTL:      time.Minute,
		CacheSize:    64,
		SupportEmail: "help@golean.example",
	}

	cache, err := rendercache.NewLRUStore(siteCfg.CacheSize, siteCfg.PageTTL)
	require.NoError(t, err)
	renderer, err := rendering.New(siteCfg)
	require.NoError(t, err)

	log := &invalidationLog{fail: map[string]bool{}}
	background := &bg.Tracked{}
	resolver := paths.NewResolver(content)
	orchestrator := revalidate.NewOrchestrator(resolver,
		revalidate.Multi{revalidate.InvalidatorFunc(cache.Invalidate), log},
		background,
		revalidate.Options{PriorityRetries: 3, Retries: 2, Concurrency: 2},
	)

	deps := Deps{
		Site:       siteCfg,
		Webhook:    &config.WebhookConfig{Secret: testSecret, SecretHeader: config.DefaultSecretHeader},
		Pages:      site.NewResolver(content, 1),
		Renderer:   renderer,
		Cache:      cache,
		Revalidate: orchestrator,
		SEO:        seo.NewService(resolver, content, siteCfg),
		Checkout:   payment.NewCheckout(content, &config.PaymentConfig{Timeout: 2 * time.Second}),
		JWT: NewJWTService(&config.JWTConfig{
			Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
			Issuer:          "landing-site",
			ExpirationHours: 1,
		}),
		Background: background,
		RateLimit:  &ratelimit.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	s, err := New(Config{Port: 0}, deps)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })

	return &testServer{Server: s, repo: repo, cache: cache, invalidations: log, background: background}
}

func (ts *testServer) do(t *testing.T, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestCORSMiddleware_OPTIONS(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodOptions, "/api/process-payment", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(d *Deps) {
		d.RateLimit = &ratelimit.Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Hour}
	})

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodGet, "/robots.txt", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	w := ts.do(t, http.MethodGet, "/robots.txt", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	w = ts.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, "health is never limited")
}

func TestSiteArtifacts(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/robots.txt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, w.Body.String(), "User-Agent: GPTBot")
	assert.Contains(t, w.Body.String(), "Sitemap: https://golean.example/sitemap.xml")

	w = ts.do(t, http.MethodGet, "/sitemap.xml", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml"))
	assert.Contains(t, w.Body.String(), "<loc>https://golean.example/blog/first-post</loc>")

	w = ts.do(t, http.MethodGet, "/site.webmanifest", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/manifest+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "GoLean Home", decode[map[string]any](t, w)["name"])
}

func TestRevalidate_TriggersSecondPass(t *testing.T) {
	ts := newTestServer(t, func(d *Deps) {
		d.Revalidate = revalidate.NewOrchestrator(
			paths.NewResolver(cms.NewContent(cmstest.Repository())),
			revalidate.InvalidatorFunc(func(context.Context, string) error { return nil }),
			d.Background,
			revalidate.Options{SecondPassDelay: time.Millisecond, Concurrency: 1},
		)
	})

	w := ts.do(t, http.MethodPost, "/api/revalidate", []byte(`{"sys":{"contentType":{"sys":{"id":"unknown"}}}}`),
		map[string]string{config.DefaultSecretHeader: testSecret})
	require.Equal(t, http.StatusOK, w.Code)

	done := make(chan struct{})
	go func() {
		ts.background.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second pass did not finish")
	}
}

func TestClose_RunsShutdownHookBeforeWaiting(t *testing.T) {
	stopped := make(chan struct{})
	ts := newTestServer(t, func(d *Deps) {
		d.OnShutdown = func() { close(stopped) }
	})
	ts.background.Do(func() { <-stopped })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ts.Close(ctx)

	require.NoError(t, ctx.Err(), "pending work finished once the hook ran")
}
