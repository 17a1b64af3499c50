package platform

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for platform operations.
var (
	// ErrNotFound is returned when the repository, user, or organization does not exist.
	ErrNotFound = errors.New("resource not found on platform")

	// ErrBadCredentials is returned when the platform rejects the supplied token.
	ErrBadCredentials = errors.New("platform rejected the supplied credentials")
)

// Error is the structured error returned by [Provider] operations. It records
// enough about a failure for the batch layer to choose between retrying,
// backing off, and giving up on the target.
type Error struct {
	Op          string        // operation that failed, e.g. "ensure repo"
	Repo        string        // repository the operation targeted, empty for org-level calls
	Status      int           // HTTP status from the platform, 0 when the call never completed
	Transient   bool          // a retry of the same call may succeed
	RateLimited bool          // the platform throttled the call
	RetryAfter  time.Duration // throttle hint from the platform, 0 when it gave none
	Err         error
}

func (e *Error) Error() string {
	if e.Repo != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Repo, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error so errors.Is and errors.As see through it.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether retrying the failed call may succeed.
// Rate-limited errors count as transient.
func IsTransient(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Transient || pe.RateLimited
	}
	return false
}

// IsRateLimited reports whether the platform throttled the call, and the wait
// it asked for (zero when it gave no hint).
func IsRateLimited(err error) (time.Duration, bool) {
	var pe *Error
	if errors.As(err, &pe) && pe.RateLimited {
		return pe.RetryAfter, true
	}
	return 0, false
}
