package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/repoherd/internal/security"
	"github.com/sgaunet/repoherd/pkg/batch"
)

// BatchProgress renders a live counter line for a running batch and a detail
// line for every failure. Failure messages are sanitized before display so a
// platform error echoing a credential never reaches the terminal.
//
// Observe is safe to call from multiple goroutines; hand it to
// batch.Options.OnResult.
type BatchProgress struct {
	mu        sync.Mutex
	updatable *bullets.UpdatableLogger
	handle    *bullets.BulletHandle
	operation string
	total     int
	done      int
	failed    int
	skipped   int
}

// NewBatchProgress creates a progress display writing to w.
func NewBatchProgress(w io.Writer) *BatchProgress {
	return &BatchProgress{updatable: bullets.NewUpdatable(w)}
}

// Begin starts the counter line for a batch of total targets.
func (p *BatchProgress) Begin(operation string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.operation = operation
	p.total = total
	p.done = 0
	p.failed = 0
	p.skipped = 0
	p.handle = p.updatable.InfoHandle(p.line())
}

// Observe records one finished target and refreshes the counter line.
// Failures additionally get their own line, with the message sanitized.
func (p *BatchProgress) Observe(res batch.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	switch res.Outcome {
	case batch.OutcomeFailure:
		p.failed++
		if res.Err != nil {
			p.updatable.Error(res.Target.RepoName + ": " + security.SanitizeString(res.Err.Error()))
		}
	case batch.OutcomeSkipped:
		p.skipped++
	case batch.OutcomeSuccess:
	}

	if p.handle != nil {
		p.handle.Update(bullets.InfoLevel, p.line())
	}
}

// Finish settles the counter line: a checkmark when every target came
// through, a cross when anything failed. Safe to call when Begin never ran.
func (p *BatchProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == nil {
		return
	}
	if p.failed > 0 {
		p.handle.Error(p.line())
	} else {
		p.handle.Success(p.line())
	}
	p.handle = nil
}

func (p *BatchProgress) line() string {
	s := fmt.Sprintf("%s: %d/%d", p.operation, p.done, p.total)
	if p.failed > 0 || p.skipped > 0 {
		s += fmt.Sprintf(" (%d failed, %d skipped)", p.failed, p.skipped)
	}
	return s
}
