package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jonathan/landing-site/internal/cms"
	"github.com/jonathan/landing-site/internal/revalidate"
)

// watchDebounce coalesces the burst of events an editor produces on save.
const watchDebounce = 300 * time.Millisecond

type revalidateRunner interface {
	Run(ctx context.Context, scope revalidate.Scope, source string) *revalidate.Report
}

// fixtureReloader swaps the served snapshot for the fixture on disk and revalidates the
// whole site. A fixture that fails to parse keeps the previous snapshot.
type fixtureReloader struct {
	path       string
	repo       *cms.MemoryRepository
	revalidate revalidateRunner
}

func (f *fixtureReloader) reload() error {
	raw, err := cms.ReadFixture(f.path)
	if err != nil {
		return err
	}
	f.repo.Replace(raw...)
	report := f.revalidate.Run(context.Background(), revalidate.Scope{Kind: revalidate.ScopeFull}, "watch")
	log.Printf("[watch] reloaded %s (%d items), revalidated %d paths", f.path, len(raw), len(report.Paths))
	return nil
}

// watchFixture reloads the fixture whenever it changes. The parent directory is watched
// because editors often replace the file instead of writing it. The returned function
// stops watching.
func watchFixture(path string, repo *cms.MemoryRepository, runner revalidateRunner) (func(), error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixture path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	reloader := &fixtureReloader{path: abs, repo: repo, revalidate: runner}
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() {
					if err := reloader.reload(); err != nil {
						log.Printf("[watch] keeping previous content: %v", err)
					}
				})
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[watch] watcher error: %v", err)
			}
		}
	}()

	log.Printf("[watch] watching %s", abs)
	return func() {
		watcher.Close()
		<-done
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}, nil
}
