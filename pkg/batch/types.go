package batch

import (
	"time"

	"github.com/sgaunet/repoherd/pkg/roster"
)

// Tunable defaults. Zero-valued Options fields fall back to these.
const (
	// DefaultConcurrency bounds how many targets are worked on at once.
	DefaultConcurrency = 5
	// DefaultAttempts is the total number of tries per target, first
	// attempt included.
	DefaultAttempts = 3
	// DefaultBaseBackoff is the wait before the first retry; it doubles
	// on every further attempt.
	DefaultBaseBackoff = 1 * time.Second
	// DefaultCooldown is the batch-wide pause after a rate-limit error
	// that carries no retry hint of its own.
	DefaultCooldown = 30 * time.Second

	backoffFactor = 2
)

// Outcome is the terminal state of one target within a batch.
type Outcome string

const (
	// OutcomeSuccess means the operation completed for the target.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure means all attempts for the target failed.
	OutcomeFailure Outcome = "failure"
	// OutcomeSkipped means the target was never attempted, or the
	// operation declined it (for example a clone target already on disk).
	OutcomeSkipped Outcome = "skipped"
)

// Result records what happened to a single target. It is written once by
// the worker that owned the target and never mutated afterwards.
type Result struct {
	Target   roster.Target
	Outcome  Outcome
	Payload  string
	Err      error
	Attempts int
	Duration time.Duration
}

// Report is the complete outcome of one batch run. Results are ordered by
// submission: Results[i] belongs to the i-th target handed to Run.
type Report struct {
	ID        string
	Operation string
	Results   []Result
	Elapsed   time.Duration
}

// Counts tallies the results by outcome.
func (r *Report) Counts() (succeeded, failed, skipped int) {
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeSuccess:
			succeeded++
		case OutcomeFailure:
			failed++
		case OutcomeSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}

// Failures returns the results that ended in failure, in report order.
func (r *Report) Failures() []Result {
	var failures []Result
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailure {
			failures = append(failures, res)
		}
	}
	return failures
}

// Options tunes a Runner. The zero value is usable: every field falls back
// to its default. All tuning is per-runner, never global.
type Options struct {
	// Concurrency is the maximum number of in-flight targets.
	Concurrency int
	// Attempts is the total tries per target, first attempt included.
	Attempts int
	// BaseBackoff is the wait before the first retry of a target.
	BaseBackoff time.Duration
	// Cooldown is the batch-wide pause applied on rate-limit errors that
	// carry no retry hint.
	Cooldown time.Duration
	// DispatchDelay inserts a pause between consecutive dispatches.
	// Zero disables it.
	DispatchDelay time.Duration
	// OnResult, when set, is called once per finished target, from the
	// worker goroutine that owned it. Used for progress rendering.
	OnResult func(Result)
}

func (o Options) withDefaults() Options {
	if o.Concurrency < 1 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Attempts < 1 {
		o.Attempts = DefaultAttempts
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = DefaultBaseBackoff
	}
	if o.Cooldown <= 0 {
		o.Cooldown = DefaultCooldown
	}
	if o.DispatchDelay < 0 {
		o.DispatchDelay = 0
	}
	return o
}
