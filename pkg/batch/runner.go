// Package batch runs one operation across many course repositories with
// bounded concurrency, per-target retry and a batch-wide rate-limit
// cooldown.
//
// A batch never aborts: every target ends up with exactly one Result
// (success, failure or skipped) and the Report lists them in submission
// order. Canceling the context stops new dispatches and marks the targets
// that never started as skipped; targets already in flight finish and are
// recorded.
//
// Usage:
//
//	runner := batch.NewRunner(provider, batch.Options{Concurrency: 5})
//	report := runner.Run(ctx, batch.Setup{Private: true}, targets)
//	succeeded, failed, skipped := report.Counts()
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sgaunet/bullets"
	"github.com/sgaunet/repoherd/internal/logger"
	"github.com/sgaunet/repoherd/pkg/platform"
	"github.com/sgaunet/repoherd/pkg/roster"
)

const skipCanceledReason = "canceled before dispatch"

// Runner executes operations across targets against one platform provider.
type Runner struct {
	provider platform.Provider
	opts     Options
	gate     *cooldownGate
	log      *bullets.Logger
}

// NewRunner creates a runner bound to the given provider. Zero-valued
// Options fields fall back to the package defaults.
func NewRunner(provider platform.Provider, opts Options) *Runner {
	return &Runner{
		provider: provider,
		opts:     opts.withDefaults(),
		gate:     &cooldownGate{},
		log:      logger.NoLogger(),
	}
}

// SetLogger sets the logger used for per-target progress lines.
func (r *Runner) SetLogger(log *bullets.Logger) {
	r.log = log
}

// Run applies op to every target and returns the full report. It never
// returns an error: per-target problems are recorded in the report, and
// context cancellation only converts not-yet-dispatched targets into
// skipped results.
func (r *Runner) Run(ctx context.Context, op Operation, targets []roster.Target) *Report {
	report := &Report{
		ID:        uuid.New().String(),
		Operation: op.Name(),
		Results:   make([]Result, len(targets)),
	}
	start := time.Now()
	r.log.Debug(fmt.Sprintf("Starting batch %s: %s across %d targets", report.ID, report.Operation, len(targets)))

	sem := make(chan struct{}, r.opts.Concurrency)
	var wg sync.WaitGroup

	for i, target := range targets {
		if i > 0 && r.opts.DispatchDelay > 0 {
			// Cancellation during the pause is picked up right below.
			_ = sleepCtx(ctx, r.opts.DispatchDelay)
		}
		select {
		case <-ctx.Done():
			r.skip(report, i, target)
			continue
		case sem <- struct{}{}:
		}
		// Gate check comes after the slot acquire: a worker may trip the
		// cooldown while the dispatch loop is blocked on a free slot.
		if err := r.gate.Wait(ctx); err != nil {
			<-sem
			r.skip(report, i, target)
			continue
		}
		if ctx.Err() != nil {
			// Canceled while acquiring the slot; the target never started.
			<-sem
			r.skip(report, i, target)
			continue
		}
		wg.Add(1)
		go func(pos int, target roster.Target) {
			defer wg.Done()
			defer func() { <-sem }()
			res := r.runOne(ctx, op, target)
			report.Results[pos] = res
			r.observe(res)
		}(i, target)
	}

	wg.Wait()
	report.Elapsed = time.Since(start)
	succeeded, failed, skipped := report.Counts()
	r.log.Debug(fmt.Sprintf("Batch %s finished: %d succeeded, %d failed, %d skipped", report.ID, succeeded, failed, skipped))
	return report
}

// runOne drives the retry loop for a single target.
func (r *Runner) runOne(ctx context.Context, op Operation, target roster.Target) Result {
	start := time.Now()
	res := Result{Target: target, Outcome: OutcomeFailure}
	backoff := r.opts.BaseBackoff

	for attempt := 1; attempt <= r.opts.Attempts; attempt++ {
		res.Attempts = attempt
		payload, err := op.Apply(ctx, r.provider, target)
		if err == nil {
			res.Outcome = OutcomeSuccess
			res.Payload = payload
			res.Err = nil
			break
		}

		var skip *SkipError
		if errors.As(err, &skip) {
			res.Outcome = OutcomeSkipped
			res.Payload = skip.Reason
			res.Err = nil
			break
		}

		res.Err = err
		if _, limited := platform.IsRateLimited(err); limited {
			r.gate.Trip(r.cooldownFor(err))
			// Remaining, not the raw window: an earlier trip may still hold
			// a later resume deadline.
			r.log.Warn(fmt.Sprintf("Rate limited on %s, pausing batch for %v", target.RepoName, r.gate.Remaining().Round(time.Second)))
		}
		if !platform.IsTransient(err) || attempt == r.opts.Attempts {
			break
		}

		r.log.Debug(fmt.Sprintf("Retrying %s after %v (attempt %d/%d): %v", target.RepoName, backoff, attempt, r.opts.Attempts, err))
		if sleepCtx(ctx, backoff) != nil {
			break
		}
		if r.gate.Wait(ctx) != nil {
			break
		}
		backoff *= backoffFactor
	}

	res.Duration = time.Since(start)
	return res
}

// cooldownFor prefers the platform's retry hint over the configured window.
func (r *Runner) cooldownFor(err error) time.Duration {
	var perr *platform.Error
	if errors.As(err, &perr) && perr.RetryAfter > 0 {
		return perr.RetryAfter
	}
	return r.opts.Cooldown
}

func (r *Runner) skip(report *Report, pos int, target roster.Target) {
	res := Result{Target: target, Outcome: OutcomeSkipped, Payload: skipCanceledReason}
	report.Results[pos] = res
	r.observe(res)
}

func (r *Runner) observe(res Result) {
	if r.opts.OnResult != nil {
		r.opts.OnResult(res)
	}
	switch res.Outcome {
	case OutcomeSuccess:
		r.log.Debug(fmt.Sprintf("%s: %s", res.Target.RepoName, res.Payload))
	case OutcomeSkipped:
		r.log.Debug(fmt.Sprintf("%s skipped: %s", res.Target.RepoName, res.Payload))
	case OutcomeFailure:
		r.log.Warn(fmt.Sprintf("%s failed after %d attempt(s): %v", res.Target.RepoName, res.Attempts, res.Err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
