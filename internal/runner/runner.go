// Package runner executes conversions off the caller's thread so an
// interactive shell stays responsive during a long encode. Exactly one job
// runs at a time; there is no queue.
package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"vid2anim/internal/encode"
)

// ErrBusy is returned by Start while a job is still in flight.
var ErrBusy = errors.New("a conversion is already running")

// Result is delivered to the completion callback when a job finishes,
// whether it succeeded, failed, or was cancelled.
type Result struct {
	JobID      string
	OutputPath string
	Err        error // nil on success.
	Elapsed    time.Duration
}

// Runner owns the single in-flight job. The completion callback is invoked
// from the job's goroutine; callers that need results on their own loop
// should forward them through a channel.
type Runner struct {
	log  *zap.Logger
	enc  *encode.Orchestrator
	done func(Result)

	mu     sync.Mutex
	cancel context.CancelFunc
	busy   bool
}

// New returns a Runner delivering results to done.
func New(log *zap.Logger, enc *encode.Orchestrator, done func(Result)) *Runner {
	return &Runner{log: log, enc: enc, done: done}
}

// Start launches job on a background goroutine. It returns ErrBusy when a
// job is already running; it never blocks on the encode itself.
func (r *Runner) Start(ctx context.Context, job encode.Job) error {
	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return ErrBusy
	}
	jobCtx, cancel := context.WithCancel(ctx)
	r.busy = true
	r.cancel = cancel
	r.mu.Unlock()

	go r.run(jobCtx, cancel, job)
	return nil
}

// Cancel terminates the in-flight job's child process, if any. The job still
// completes through the callback, with a failure result.
func (r *Runner) Cancel() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Busy reports whether a job is currently in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

func (r *Runner) run(ctx context.Context, cancel context.CancelFunc, job encode.Job) {
	defer cancel()

	start := time.Now()
	err := r.enc.Run(ctx, &job)
	elapsed := time.Since(start)

	if err != nil && ctx.Err() != nil {
		r.log.Warn("conversion cancelled", zap.String("job", job.ID))
	}

	r.mu.Lock()
	r.busy = false
	r.cancel = nil
	r.mu.Unlock()

	r.done(Result{
		JobID:      job.ID,
		OutputPath: job.OutputPath,
		Err:        err,
		Elapsed:    elapsed,
	})
}
