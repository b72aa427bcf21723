// Package bg runs deferred work such as the delayed second revalidation pass.
//
// Handlers never call "go func()" directly. They hand work to a Runner so tests and the
// CLI can switch to synchronous execution and graceful shutdown can wait for pending work.
package bg

import "sync"

// Runner executes functions, either synchronously or asynchronously.
type Runner interface {
	Do(fn func())
}

// Async executes each function in a new goroutine.
type Async struct{}

// Do executes the function in a new goroutine.
func (Async) Do(fn func()) {
	go fn()
}

// Sync executes functions in the caller's goroutine. Panics propagate to the caller.
type Sync struct{}

// Do executes the function and returns when it completes.
func (Sync) Do(fn func()) {
	fn()
}

// Tracked is an asynchronous Runner whose pending work can be awaited.
// The zero value is ready to use.
type Tracked struct {
	wg sync.WaitGroup
}

// Do executes the function in a new goroutine and records it as pending.
func (t *Tracked) Do(fn func()) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		fn()
	}()
}

// Wait blocks until every function started with Do has returned.
func (t *Tracked) Wait() {
	t.wg.Wait()
}
