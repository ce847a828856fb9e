// Package coord runs the network side of a session: the create call and the
// concurrent artifact fetches that follow it.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/signgen/internal/backend"
	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/fetch"
	"github.com/abelbrown/signgen/internal/logging"
	"github.com/abelbrown/signgen/internal/store"
	"github.com/abelbrown/signgen/internal/ui"
)

// maxConcurrentFetches limits parallel artifact fetches.
const maxConcurrentFetches = 4

// artifactTimeout bounds one artifact fetch including its retry.
// The create call has no timeout of its own.
const artifactTimeout = 2 * time.Minute

// creator interface for dependency injection (testing).
type creator interface {
	Create(ctx context.Context, cfg config.Config, word string) error
}

// fetcher interface for dependency injection (testing).
type fetcher interface {
	Fetch(ctx context.Context, req fetch.Request) fetch.Result
}

// invalidator is implemented by fetchers that cache per word.
type invalidator interface {
	Invalidate(word string)
}

// history records terminal generations. Optional.
type history interface {
	RecordGeneration(word string, genErr error) error
}

// Coordinator issues backend calls on behalf of the UI.
// Uses context cancellation as the ONLY stop mechanism.
type Coordinator struct {
	creator creator
	fetcher fetcher
	history history
	wg      sync.WaitGroup
}

// NewCoordinator creates a Coordinator with the real backend and fetcher.
// The store is optional (nil disables history).
func NewCoordinator(b *backend.Client, f *fetch.Fetcher, st *store.Store) *Coordinator {
	if st == nil {
		return NewCoordinatorWithDeps(b, f, nil)
	}
	return NewCoordinatorWithDeps(b, f, st)
}

// NewCoordinatorWithDeps allows injecting custom dependencies (for testing).
func NewCoordinatorWithDeps(c creator, f fetcher, h history) *Coordinator {
	return &Coordinator{creator: c, fetcher: f, history: h}
}

// Generate asks the backend to generate videos for word and blocks until
// the create call returns. Cached payloads of word are dropped first since
// the backend overwrites its outputs.
func (c *Coordinator) Generate(ctx context.Context, word string, cfg config.Config) error {
	if inv, ok := c.fetcher.(invalidator); ok {
		inv.Invalidate(word)
	}

	start := time.Now()
	err := c.creator.Create(ctx, cfg, word)
	if err != nil {
		logging.Warn("coord: generation failed", "word", word, "error", err, "took", time.Since(start))
	} else {
		logging.Info("coord: generation succeeded", "word", word, "took", time.Since(start))
	}

	if c.history != nil {
		if herr := c.history.RecordGeneration(word, err); herr != nil {
			logging.Warn("coord: failed to record history", "word", word, "error", herr)
		}
	}
	return err
}

// FetchAll fetches every request in parallel and hands each result to sink
// as it completes (order non-deterministic). It returns when all are done.
func (c *Coordinator) FetchAll(ctx context.Context, reqs []fetch.Request, sink func(fetch.Result)) {
	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)

	for _, req := range reqs {
		g.Go(func() error {
			// Early exit if context cancelled
			if ctx.Err() != nil {
				return nil
			}
			fetchCtx, cancel := context.WithTimeout(ctx, artifactTimeout)
			defer cancel()

			res := c.fetcher.Fetch(fetchCtx, req)
			if sink != nil {
				sink(res)
			}
			return nil // never fail the group - errors reported per artifact
		})
	}

	_ = g.Wait()
}

// Dispatch runs FetchAll in the background and sends a ui.ArtifactLoaded
// message to program for each result.
func (c *Coordinator) Dispatch(ctx context.Context, program *tea.Program, reqs []fetch.Request) {
	if len(reqs) == 0 {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.FetchAll(ctx, reqs, func(res fetch.Result) {
			// Handle nil program gracefully for testing
			if program != nil {
				program.Send(ui.ArtifactLoaded{Result: res})
			}
		})
	}()
}

// Wait blocks until every dispatched fetch has finished.
// Call after canceling the context passed to Dispatch.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
