package gitlab

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Error definitions for GitLab API operations.
var (
	errTokenRequired = errors.New("gitlab token is required")
	errGroupRequired = errors.New("gitlab group is required")
	errUserNotFound  = errors.New("no gitlab user found for username")

	// ErrTokenRequired is returned when the client is built without a token.
	ErrTokenRequired = errTokenRequired
	// ErrGroupRequired is returned when the client is built without a group.
	ErrGroupRequired = errGroupRequired
	// ErrUserNotFound is returned when a username matches no GitLab account.
	ErrUserNotFound = errUserNotFound
)

// StatusCode extracts the HTTP status from a client-go error, 0 when the
// error carries none (transport failures, cancellations).
func StatusCode(err error) int {
	var er *gitlab.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	return 0
}

// IsNotFound reports whether the API answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsAlreadyExists reports whether a create call failed because the resource
// exists. GitLab answers 400 for taken project paths and 409 for members
// that already exist.
func IsAlreadyExists(err error) bool {
	status := StatusCode(err)
	return status == http.StatusBadRequest || status == http.StatusConflict
}

// IsBadCredentials reports whether the API rejected the token.
func IsBadCredentials(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// RetryAfter reports whether the API throttled the call, and the wait it
// asked for via the Retry-After header (zero when absent).
func RetryAfter(err error) (time.Duration, bool) {
	var er *gitlab.ErrorResponse
	if !errors.As(err, &er) || er.Response == nil {
		return 0, false
	}
	if er.Response.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}
	if header := er.Response.Header.Get("Retry-After"); header != "" {
		if seconds, parseErr := strconv.Atoi(header); parseErr == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second, true
		}
	}
	return 0, true
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
	return status == 0
}
