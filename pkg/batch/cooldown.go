package batch

import (
	"context"
	"sync"
	"time"
)

// cooldownGate pauses the whole batch after a rate-limit error. Workers and
// the dispatch loop call Wait before touching the platform; Trip moves the
// resume deadline forward. In-flight calls are never interrupted.
type cooldownGate struct {
	mu       sync.Mutex
	resumeAt time.Time
}

// Trip blocks new work for the given duration from now. A later resume
// deadline always wins; tripping with a shorter window never shortens an
// ongoing cooldown.
func (g *cooldownGate) Trip(d time.Duration) {
	if d <= 0 {
		return
	}
	until := time.Now().Add(d)
	g.mu.Lock()
	if until.After(g.resumeAt) {
		g.resumeAt = until
	}
	g.mu.Unlock()
}

// Wait blocks until the cooldown window has passed or ctx is done. The
// deadline is re-read after every wake because another worker may have
// tripped the gate again in the meantime.
func (g *cooldownGate) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.mu.Lock()
		wait := time.Until(g.resumeAt)
		g.mu.Unlock()
		if wait <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Remaining reports how much of the cooldown window is left.
func (g *cooldownGate) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if wait := time.Until(g.resumeAt); wait > 0 {
		return wait
	}
	return 0
}
