package revalidate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/landing-site/internal/bg"
	"github.com/jonathan/landing-site/internal/cms"
	"github.com/jonathan/landing-site/internal/cms/cmstest"
	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/db"
	"github.com/jonathan/landing-site/internal/paths"
)

// recordingInvalidator records every call and fails paths a configured number of times.
type recordingInvalidator struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]int
}

func newRecorder(failures map[string]int) *recordingInvalidator {
	if failures == nil {
		failures = map[string]int{}
	}
	return &recordingInvalidator{failures: failures}
}

func (r *recordingInvalidator) Invalidate(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, path)
	if r.failures[path] != 0 {
		if r.failures[path] > 0 {
			r.failures[path]--
		}
		return errors.New("cache unavailable")
	}
	return nil
}

func (r *recordingInvalidator) count(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == path {
			n++
		}
	}
	return n
}

func (r *recordingInvalidator) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeRunRecorder struct {
	runs []*db.RevalidationRun
	err  error
}

func (f *fakeRunRecorder) CreateRevalidationRun(_ context.Context, run *db.RevalidationRun) error {
	f.runs = append(f.runs, run)
	return f.err
}

func testOptions() Options {
	return Options{PriorityRetries: 3, Retries: 2, Concurrency: 1}
}

func newTestOrchestrator(inv Invalidator, runner bg.Runner, opts Options) *Orchestrator {
	resolver := paths.NewResolver(cms.NewContent(cmstest.Repository()))
	return NewOrchestrator(resolver, inv, runner, opts)
}

func TestRevalidate_BlogDynamicPage(t *testing.T) {
	inv := newRecorder(nil)
	o := newTestOrchestrator(inv, bg.Sync{}, testOptions())

	req, err := ParseRequest([]byte(`{"sys":{"contentType":{"sys":{"id":"dynamicPage"}}},"fields":{"slug":{"en-US":"pricing-update"},"location":{"en-US":"blog"}}}`), "")
	require.NoError(t, err)

	report := o.Revalidate(context.Background(), req, "webhook")
	assert.Equal(t, []string{"/", "/blog", "/blog/pricing-update"}, report.Paths)
	assert.Empty(t, report.Failed)
	assert.Equal(t, "dynamicPage", report.ContentType)
	assert.Equal(t, "webhook", report.Source)
	assert.Equal(t, report.Paths, inv.snapshot())
}

func TestRevalidate_ThemeChangeCoversFullSite(t *testing.T) {
	inv := newRecorder(nil)
	o := newTestOrchestrator(inv, bg.Sync{}, testOptions())

	req, err := ParseRequest([]byte(`{"sys":{"contentType":{"sys":{"id":"landingPage"}}},"fields":{"slug":{"en-US":"partners"},"theme":{"en-US":"forest"}}}`), "")
	require.NoError(t, err)

	report := o.Revalidate(context.Background(), req, "webhook")

	resolver := paths.NewResolver(cms.NewContent(cmstest.Repository()))
	full := resolver.Resolve(context.Background(), "")
	assert.ElementsMatch(t, full.Slice(), report.Paths)
	assert.Contains(t, report.Paths, "/promo")
	assert.Contains(t, report.Paths, "/blog/second-post")
}

func TestRun_PriorityPathsFirst(t *testing.T) {
	inv := newRecorder(nil)
	o := newTestOrchestrator(inv, bg.Sync{}, testOptions())

	report := o.Run(context.Background(), Scope{Kind: ScopeLanding, Slug: "partners"}, "admin")
	calls := inv.snapshot()
	require.GreaterOrEqual(t, len(calls), 3)
	assert.Equal(t, "/", calls[0])
	assert.Equal(t, "/blog", calls[1])
	assert.Equal(t, report.Paths, calls)
	assert.Contains(t, report.Paths, "/partners/case-study-1")
	assert.NotContains(t, report.Paths, "/promo")
}

func TestRun_DynamicPageIncludesNestedRoutes(t *testing.T) {
	inv := newRecorder(nil)
	o := newTestOrchestrator(inv, bg.Sync{}, testOptions())

	report := o.Run(context.Background(), ScopeFor(&Request{ContentTypeID: "dynamicPage", Slug: "case-study-1"}), "webhook")
	assert.Equal(t, []string{"/", "/case-study-1", "/partners/case-study-1"}, report.Paths)
}

func TestRun_RetryBudgets(t *testing.T) {
	inv := newRecorder(map[string]int{"/": 3, "/about": 2})
	o := newTestOrchestrator(inv, bg.Sync{}, testOptions())

	report := o.Run(context.Background(), Scope{Kind: ScopePaths, Paths: []string{"/", "/about"}}, "webhook")
	assert.Empty(t, report.Failed)
	assert.Equal(t, 4, inv.count("/"), "one attempt plus three retries")
	assert.Equal(t, 3, inv.count("/about"), "one attempt plus two retries")
}

func TestRun_PartialFailureIsTolerated(t *testing.T) {
	inv := newRecorder(map[string]int{"/about": -1})
	o := newTestOrchestrator(inv, bg.Sync{}, testOptions())

	scope := Scope{Kind: ScopePaths, Paths: []string{"/", "/about", "/privacy", "/partners"}}
	report := o.Run(context.Background(), scope, "webhook")

	assert.Equal(t, []string{"/", "/about", "/privacy", "/partners"}, report.Paths)
	assert.Equal(t, []string{"/about"}, report.Failed)
	assert.Equal(t, 3, inv.count("/about"))
	assert.Equal(t, 1, inv.count("/privacy"))
	assert.Equal(t, 1, inv.count("/partners"))
}

func TestRun_ResolverFallback(t *testing.T) {
	repo := cmstest.Repository()
	repo.FailWith(errors.New("cms down"))
	resolver := paths.NewResolver(cms.NewContent(repo))
	inv := newRecorder(nil)
	o := NewOrchestrator(resolver, inv, bg.Sync{}, testOptions())

	report := o.Run(context.Background(), Scope{Kind: ScopeFull}, "webhook")
	assert.Equal(t, []string{"/", "/blog"}, report.Paths)
}

func TestRun_SecondPass(t *testing.T) {
	inv := newRecorder(nil)
	runner := &bg.Tracked{}
	opts := testOptions()
	opts.SecondPassDelay = 5 * time.Millisecond
	o := newTestOrchestrator(inv, runner, opts)

	report := o.Run(context.Background(), Scope{Kind: ScopePaths, Paths: []string{"/", "/about"}}, "webhook")
	runner.Wait()

	for _, p := range report.Paths {
		assert.Equal(t, 2, inv.count(p), p)
	}
}

func TestRun_SecondPassFailuresAreSwallowed(t *testing.T) {
	// Priority retries consume the first four failures, the fifth hits the second pass.
	inv := newRecorder(map[string]int{"/": 5})
	runner := &bg.Tracked{}
	opts := testOptions()
	opts.SecondPassDelay = time.Millisecond
	o := newTestOrchestrator(inv, runner, opts)

	report := o.Run(context.Background(), Scope{Kind: ScopePaths, Paths: []string{"/"}}, "webhook")
	runner.Wait()

	assert.Equal(t, []string{"/"}, report.Failed)
	assert.Equal(t, 5, inv.count("/"))
}

func TestRun_RecordsRun(t *testing.T) {
	inv := newRecorder(map[string]int{"/about": -1})
	rec := &fakeRunRecorder{err: errors.New("db down")}
	o := newTestOrchestrator(inv, bg.Sync{}, testOptions()).WithRecorder(rec)

	report := o.Run(context.Background(), Scope{Kind: ScopePaths, Paths: []string{"/", "/about"}}, "admin")
	require.Len(t, rec.runs, 1)
	run := rec.runs[0]
	assert.Equal(t, report.RunID, run.ID)
	assert.Equal(t, "admin", run.Source)
	assert.Equal(t, "paths:[/ /about]", run.Scope)
	assert.Equal(t, []string{"/", "/about"}, run.Paths)
	assert.Equal(t, []string{"/about"}, run.Failed)
}

func TestRun_ContextCancelledStopsRetries(t *testing.T) {
	inv := newRecorder(map[string]int{"/": -1})
	opts := testOptions()
	opts.RetryDelay = time.Hour
	o := newTestOrchestrator(inv, bg.Sync{}, opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := o.Run(ctx, Scope{Kind: ScopePaths, Paths: []string{"/"}}, "webhook")
	assert.Equal(t, []string{"/"}, report.Failed)
	assert.Equal(t, 1, inv.count("/"))
}

func TestMulti(t *testing.T) {
	var got []string
	ok := InvalidatorFunc(func(_ context.Context, path string) error {
		got = append(got, path)
		return nil
	})
	failing := InvalidatorFunc(func(context.Context, string) error { return errors.New("boom") })

	assert.NoError(t, Multi{ok, ok}.Invalidate(context.Background(), "/a"))
	assert.Equal(t, []string{"/a", "/a"}, got)

	err := Multi{failing, ok}.Invalidate(context.Background(), "/b")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"/a", "/a", "/b"}, got)
}

func TestOptionsFromConfig(t *testing.T) {
	assert.Equal(t, DefaultOptions(), OptionsFromConfig(nil))

	opts := OptionsFromConfig(&config.WebhookConfig{
		PriorityRetries: 5,
		Retries:         1,
		RetryDelay:      time.Second,
		SecondPassDelay: 0,
	})
	assert.Equal(t, 5, opts.PriorityRetries)
	assert.Equal(t, 1, opts.Retries)
	assert.Equal(t, time.Second, opts.RetryDelay)
	assert.Zero(t, opts.SecondPassDelay)
	assert.Equal(t, 4, opts.Concurrency)
}
