package revalidate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/landing-site/internal/bg"
	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/db"
	"github.com/jonathan/landing-site/internal/paths"
)

// PathResolver enumerates the routes of a scope.
type PathResolver interface {
	Resolve(ctx context.Context, scope string) *paths.Set
	PageRoutes(ctx context.Context, slug string) ([]string, error)
}

// RunRecorder persists the outcome of a run.
type RunRecorder interface {
	CreateRevalidationRun(ctx context.Context, run *db.RevalidationRun) error
}

// Options tunes retries and the delayed second pass.
type Options struct {
	PriorityRetries int
	Retries         int
	RetryDelay      time.Duration
	SecondPassDelay time.Duration
	// Concurrency bounds parallel invalidation of non-priority paths.
	Concurrency int
}

// DefaultOptions returns 3 retries for priority paths, 2 for the others, a 500ms retry
// delay and a 2s second pass.
func DefaultOptions() Options {
	return Options{
		PriorityRetries: 3,
		Retries:         2,
		RetryDelay:      500 * time.Millisecond,
		SecondPassDelay: 2 * time.Second,
		Concurrency:     4,
	}
}

// OptionsFromConfig maps the webhook configuration onto orchestrator options.
func OptionsFromConfig(cfg *config.WebhookConfig) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.PriorityRetries = cfg.PriorityRetries
	opts.Retries = cfg.Retries
	opts.RetryDelay = cfg.RetryDelay
	opts.SecondPassDelay = cfg.SecondPassDelay
	return opts
}

// Report is the outcome of one revalidation run.
type Report struct {
	RunID       uuid.UUID
	Source      string
	ContentType string
	Scope       Scope
	Paths       []string
	Failed      []string
	StartedAt   time.Time
	Duration    time.Duration
}

// Orchestrator scopes, orders and retries invalidations.
type Orchestrator struct {
	resolver    PathResolver
	invalidator Invalidator
	runner      bg.Runner
	recorder    RunRecorder
	opts        Options
}

// NewOrchestrator creates an orchestrator. A nil runner schedules the second pass on a
// new goroutine.
func NewOrchestrator(resolver PathResolver, invalidator Invalidator, runner bg.Runner, opts Options) *Orchestrator {
	if runner == nil {
		runner = bg.Async{}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Orchestrator{
		resolver:    resolver,
		invalidator: invalidator,
		runner:      runner,
		opts:        opts,
	}
}

// WithRecorder stores every run report through recorder.
func (o *Orchestrator) WithRecorder(recorder RunRecorder) *Orchestrator {
	o.recorder = recorder
	return o
}

// Revalidate scopes a change notification and invalidates its paths.
func (o *Orchestrator) Revalidate(ctx context.Context, req *Request, source string) *Report {
	report := o.Run(ctx, ScopeFor(req), source)
	report.ContentType = req.ContentTypeID
	return report
}

// Run invalidates every path of scope. Root and /blog go first with the priority retry
// budget, the rest follow. A path that exhausts its retries is reported as failed and
// does not stop the batch. A second pass over every path is scheduled in the background.
func (o *Orchestrator) Run(ctx context.Context, scope Scope, source string) *Report {
	report := &Report{
		RunID:     uuid.New(),
		Source:    source,
		Scope:     scope,
		StartedAt: time.Now(),
	}

	set := o.resolve(ctx, scope)
	priority, rest := order(set)
	report.Paths = append(append([]string{}, priority...), rest...)
	log.Printf("[revalidate] run %s (%s, %s): %d paths", report.RunID, source, scope, len(report.Paths))

	var mu sync.Mutex
	fail := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		report.Failed = append(report.Failed, path)
	}

	for _, path := range priority {
		if err := o.invalidate(ctx, path, o.opts.PriorityRetries); err != nil {
			log.Printf("[revalidate] run %s: %s failed: %v", report.RunID, path, err)
			fail(path)
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(o.opts.Concurrency)
	for _, path := range rest {
		path := path
		g.Go(func() error {
			if err := o.invalidate(ctx, path, o.opts.Retries); err != nil {
				log.Printf("[revalidate] run %s: %s failed: %v", report.RunID, path, err)
				fail(path)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Failed = sortLike(report.Failed, report.Paths)
	report.Duration = time.Since(report.StartedAt)
	log.Printf("[revalidate] run %s done in %s: %d ok, %d failed", report.RunID,
		report.Duration.Round(time.Millisecond), len(report.Paths)-len(report.Failed), len(report.Failed))

	o.record(ctx, report)
	o.scheduleSecondPass(report.RunID, report.Paths)
	return report
}

func (o *Orchestrator) resolve(ctx context.Context, scope Scope) *paths.Set {
	switch scope.Kind {
	case ScopeFull:
		return o.resolver.Resolve(ctx, "")
	case ScopeLanding:
		return o.resolver.Resolve(ctx, scope.Slug)
	default:
		set := paths.NewSet(scope.Paths...)
		if scope.PageSlug != "" {
			nested, err := o.resolver.PageRoutes(ctx, scope.PageSlug)
			if err != nil {
				log.Printf("[revalidate] nested routes of %q unavailable: %v", scope.PageSlug, err)
			}
			set.Add(nested...)
		}
		return set
	}
}

// order splits paths into the priority routes, in fixed order, and the rest.
func order(set *paths.Set) (priority, rest []string) {
	for _, p := range []string{paths.Root, paths.Blog} {
		if set.Contains(p) {
			priority = append(priority, p)
		}
	}
	for _, p := range set.Slice() {
		if p != paths.Root && p != paths.Blog {
			rest = append(rest, p)
		}
	}
	return priority, rest
}

// invalidate applies one invalidation with up to retries further attempts at a fixed delay.
func (o *Orchestrator) invalidate(ctx context.Context, path string, retries int) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := o.invalidator.Invalidate(ctx, path)
		if err != nil && attempt <= retries {
			log.Printf("[revalidate] %s attempt %d failed, retrying: %v", path, attempt, err)
		}
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(o.opts.RetryDelay), uint64(max(retries, 0))),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
	}
	return nil
}

// scheduleSecondPass re-invalidates every path once after the configured delay. It never
// blocks the caller and its failures are only logged.
func (o *Orchestrator) scheduleSecondPass(runID uuid.UUID, list []string) {
	if o.opts.SecondPassDelay <= 0 || len(list) == 0 {
		return
	}
	delay := o.opts.SecondPassDelay
	o.runner.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[revalidate] run %s: second pass panicked: %v", runID, r)
			}
		}()

		time.Sleep(delay)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		failed := 0
		for _, path := range list {
			if err := o.invalidator.Invalidate(ctx, path); err != nil {
				failed++
				log.Printf("[revalidate] run %s: second pass %s failed: %v", runID, path, err)
			}
		}
		log.Printf("[revalidate] run %s: second pass done (%d/%d failed)", runID, failed, len(list))
	})
}

func (o *Orchestrator) record(ctx context.Context, report *Report) {
	if o.recorder == nil {
		return
	}
	run := &db.RevalidationRun{
		ID:          report.RunID,
		Source:      report.Source,
		ContentType: report.ContentType,
		Scope:       report.Scope.String(),
		Paths:       report.Paths,
		Failed:      report.Failed,
		StartedAt:   report.StartedAt,
	}
	if err := o.recorder.CreateRevalidationRun(ctx, run); err != nil {
		log.Printf("[revalidate] run %s: failed to record run: %v", report.RunID, err)
	}
}

// sortLike orders subset by the positions of its elements in reference.
func sortLike(subset, reference []string) []string {
	if len(subset) == 0 {
		return nil
	}
	in := make(map[string]bool, len(subset))
	for _, p := range subset {
		in[p] = true
	}
	out := make([]string, 0, len(subset))
	for _, p := range reference {
		if in[p] {
			out = append(out, p)
		}
	}
	return out
}
