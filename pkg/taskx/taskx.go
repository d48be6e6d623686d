// Package taskx runs short-lived background tasks detached from request
// lifecycles. Capture uses it for best-effort work (like deleting a spent
// authentication session) that must not delay or fail the response.
package taskx

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTaskTimeout bounds how long a detached task may run.
const DefaultTaskTimeout = 10 * time.Second

// Runner executes background tasks on fresh contexts so they survive the
// request that spawned them. Failures are logged, never propagated; a
// best-effort task that loses the race is not an error the caller can act on.
type Runner struct {
	wg      sync.WaitGroup
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a Runner. A nil logger falls back to slog.Default, and a
// non-positive timeout falls back to DefaultTaskTimeout.
func New(logger *slog.Logger, timeout time.Duration) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}
	return &Runner{logger: logger, timeout: timeout}
}

// Go runs fn in a new goroutine with its own bounded context. Panics are
// recovered and logged so a bad task can't take the process down.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("background task panicked", "task", name, "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.logger.Warn("background task failed", "task", name, "err", err)
		}
	}()
}

// Wait blocks until all running tasks finish or ctx expires. Called during
// shutdown so in-flight cleanup gets a chance to land.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
