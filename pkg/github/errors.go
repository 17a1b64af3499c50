package github

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/go-github/v69/github"
)

// Error definitions for GitHub API operations.
var (
	errTokenRequired = errors.New("github token is required")
	errOrgRequired   = errors.New("github organization is required")

	// ErrTokenRequired is returned when the client is built without a token.
	ErrTokenRequired = errTokenRequired
	// ErrOrgRequired is returned when the client is built without an organization.
	ErrOrgRequired = errOrgRequired
)

// StatusCode extracts the HTTP status from a go-github error, 0 when the
// error carries none (transport failures, cancellations).
func StatusCode(err error) int {
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	var rl *github.RateLimitError
	if errors.As(err, &rl) && rl.Response != nil {
		return rl.Response.StatusCode
	}
	var ab *github.AbuseRateLimitError
	if errors.As(err, &ab) && ab.Response != nil {
		return ab.Response.StatusCode
	}
	return 0
}

// IsNotFound reports whether the API answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsAlreadyExists reports whether a create call failed because the resource
// exists. GitHub signals this as a 422 validation error.
func IsAlreadyExists(err error) bool {
	return StatusCode(err) == http.StatusUnprocessableEntity
}

// IsBadCredentials reports whether the API rejected the token.
func IsBadCredentials(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// RetryAfter reports whether the API throttled the call, and the wait it
// asked for (zero when it gave no usable hint).
func RetryAfter(err error) (time.Duration, bool) {
	var ab *github.AbuseRateLimitError
	if errors.As(err, &ab) {
		if ab.RetryAfter != nil {
			return *ab.RetryAfter, true
		}
		return 0, true
	}
	var rl *github.RateLimitError
	if errors.As(err, &rl) {
		if wait := time.Until(rl.Rate.Reset.Time); wait > 0 {
			return wait, true
		}
		return 0, true
	}
	if StatusCode(err) == http.StatusTooManyRequests {
		return 0, true
	}
	return 0, false
}

// IsTransient reports whether retrying the call may succeed: rate limits,
// server-side errors, and transport failures. Context cancellation is not
// transient; the caller asked to stop.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if _, limited := RetryAfter(err); limited {
		return true
	}
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		return true
	}
	// No HTTP status at all means the request never got an answer.
	return status == 0
}
