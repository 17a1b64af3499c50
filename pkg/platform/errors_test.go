package platform_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sgaunet/repoherd/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	t.Run("with repo", func(t *testing.T) {
		err := &platform.Error{
			Op:   "ensure repo",
			Repo: "team-a-lab1",
			Err:  errors.New("boom"),
		}
		assert.Equal(t, "ensure repo team-a-lab1: boom", err.Error())
	})

	t.Run("without repo", func(t *testing.T) {
		err := &platform.Error{
			Op:  "verify",
			Err: errors.New("boom"),
		}
		assert.Equal(t, "verify: boom", err.Error())
	})
}

func TestError_Unwrap(t *testing.T) {
	t.Run("exposes the wrapped error", func(t *testing.T) {
		inner := errors.New("api said no")
		err := &platform.Error{Op: "open issue", Err: inner}
		assert.True(t, errors.Is(err, inner))
	})

	t.Run("sentinel survives double wrapping", func(t *testing.T) {
		inner := errors.New("404 project not found")
		err := &platform.Error{
			Op:  "ensure repo",
			Err: fmt.Errorf("%w: %w", platform.ErrNotFound, inner),
		}
		assert.True(t, errors.Is(err, platform.ErrNotFound))
		assert.True(t, errors.Is(err, inner))
	})

	t.Run("errors.As finds the structured error", func(t *testing.T) {
		err := fmt.Errorf("clone team-a-lab1: %w", &platform.Error{
			Op:     "ensure repo",
			Status: 502,
			Err:    errors.New("bad gateway"),
		})

		var pe *platform.Error
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 502, pe.Status)
	})
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "transient error",
			err:  &platform.Error{Op: "ensure repo", Transient: true, Err: errors.New("503")},
			want: true,
		},
		{
			name: "rate limited counts as transient",
			err:  &platform.Error{Op: "open issue", RateLimited: true, Err: errors.New("429")},
			want: true,
		},
		{
			name: "permanent error",
			err:  &platform.Error{Op: "ensure repo", Err: errors.New("422")},
			want: false,
		},
		{
			name: "wrapped transient error",
			err:  fmt.Errorf("attempt 2: %w", &platform.Error{Transient: true, Err: errors.New("timeout")}),
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, platform.IsTransient(tt.err))
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	t.Run("with retry hint", func(t *testing.T) {
		err := &platform.Error{
			Op:          "open issue",
			RateLimited: true,
			RetryAfter:  30 * time.Second,
			Err:         errors.New("429"),
		}
		wait, limited := platform.IsRateLimited(err)
		assert.True(t, limited)
		assert.Equal(t, 30*time.Second, wait)
	})

	t.Run("without retry hint", func(t *testing.T) {
		err := &platform.Error{Op: "open issue", RateLimited: true, Err: errors.New("429")}
		wait, limited := platform.IsRateLimited(err)
		assert.True(t, limited)
		assert.Zero(t, wait)
	})

	t.Run("transient but not rate limited", func(t *testing.T) {
		err := &platform.Error{Op: "ensure repo", Transient: true, Err: errors.New("503")}
		_, limited := platform.IsRateLimited(err)
		assert.False(t, limited)
	})

	t.Run("plain error", func(t *testing.T) {
		_, limited := platform.IsRateLimited(errors.New("boom"))
		assert.False(t, limited)
	})
}
