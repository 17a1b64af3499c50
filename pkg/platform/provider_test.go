package platform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sgaunet/repoherd/pkg/platform"
	"github.com/sgaunet/repoherd/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Title Pattern Tests ---

func TestCompileTitlePattern(t *testing.T) {
	t.Run("matches full title only", func(t *testing.T) {
		re, err := platform.CompileTitlePattern("assignment-1")
		require.NoError(t, err)
		assert.True(t, re.MatchString("assignment-1"))
		assert.False(t, re.MatchString("assignment-10"))
		assert.False(t, re.MatchString("late assignment-1"))
		assert.False(t, re.MatchString("assignment-1 feedback"))
	})

	t.Run("supports regex syntax", func(t *testing.T) {
		re, err := platform.CompileTitlePattern("assignment-[0-9]+")
		require.NoError(t, err)
		assert.True(t, re.MatchString("assignment-1"))
		assert.True(t, re.MatchString("assignment-42"))
		assert.False(t, re.MatchString("assignment-"))
		assert.False(t, re.MatchString("assignment-42 redux"))
	})

	t.Run("alternation stays anchored", func(t *testing.T) {
		re, err := platform.CompileTitlePattern("lab-1|lab-2")
		require.NoError(t, err)
		assert.True(t, re.MatchString("lab-1"))
		assert.True(t, re.MatchString("lab-2"))
		assert.False(t, re.MatchString("lab-1 and lab-2"))
		assert.False(t, re.MatchString("prep lab-2"))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		re, err := platform.CompileTitlePattern("assignment-(")
		require.Error(t, err)
		assert.Nil(t, re)
		assert.Contains(t, err.Error(), "invalid title pattern")
	})
}

// --- Role Tests ---

func TestParseRole(t *testing.T) {
	t.Run("push", func(t *testing.T) {
		role, err := platform.ParseRole("push")
		require.NoError(t, err)
		assert.Equal(t, platform.RolePush, role)
	})

	t.Run("pull", func(t *testing.T) {
		role, err := platform.ParseRole("pull")
		require.NoError(t, err)
		assert.Equal(t, platform.RolePull, role)
	})

	t.Run("case insensitive", func(t *testing.T) {
		role, err := platform.ParseRole("PUSH")
		require.NoError(t, err)
		assert.Equal(t, platform.RolePush, role)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := platform.ParseRole("admin")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown member role")
	})
}

// --- Sentinel Error Tests ---

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrNotFound", func(t *testing.T) {
		assert.Error(t, platform.ErrNotFound)
		assert.Contains(t, platform.ErrNotFound.Error(), "not found")
	})

	t.Run("ErrBadCredentials", func(t *testing.T) {
		assert.Error(t, platform.ErrBadCredentials)
		assert.Contains(t, platform.ErrBadCredentials.Error(), "credentials")
	})

	t.Run("errors_are_unwrappable", func(t *testing.T) {
		wrapped := errors.Join(platform.ErrNotFound, errors.New("extra context"))
		assert.True(t, errors.Is(wrapped, platform.ErrNotFound))
	})
}

// --- Mock Provider Tests ---

func TestMockProvider_EnsureRepo(t *testing.T) {
	t.Run("synthesizes ref from spec", func(t *testing.T) {
		mock := mocks.NewPlatformProvider()

		ref, err := mock.EnsureRepo(context.Background(), platform.RepoSpec{Name: "team-a-lab1", Private: true})
		require.NoError(t, err)
		require.NotNil(t, ref)
		assert.Equal(t, "team-a-lab1", ref.Name)
		assert.Equal(t, "course/team-a-lab1", ref.FullName)
		assert.Equal(t, "https://example.com/course/team-a-lab1.git", ref.CloneURL)
		assert.True(t, ref.Private)

		lastCall := mock.GetLastCall("EnsureRepo")
		require.NotNil(t, lastCall)
		assert.Equal(t, "team-a-lab1", lastCall.Args["name"])
		assert.Equal(t, true, lastCall.Args["private"])
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := mocks.NewPlatformProvider()
		mock.EnsureRepoError = platform.ErrBadCredentials

		ref, err := mock.EnsureRepo(context.Background(), platform.RepoSpec{Name: "team-a-lab1"})
		require.Error(t, err)
		assert.Nil(t, ref)
		assert.True(t, errors.Is(err, platform.ErrBadCredentials))
	})
}

func TestMockProvider_ListRepos(t *testing.T) {
	t.Run("yields configured repos", func(t *testing.T) {
		mock := mocks.NewPlatformProvider()
		mock.ListReposResponse = []platform.RepoRef{
			{Name: "team-a-lab1"},
			{Name: "team-b-lab1"},
		}

		var names []string
		for ref, err := range mock.ListRepos(context.Background()) {
			require.NoError(t, err)
			names = append(names, ref.Name)
		}
		assert.Equal(t, []string{"team-a-lab1", "team-b-lab1"}, names)
	})

	t.Run("yields error after repos", func(t *testing.T) {
		mock := mocks.NewPlatformProvider()
		mock.ListReposResponse = []platform.RepoRef{{Name: "team-a-lab1"}}
		mock.ListReposError = errors.New("page fetch failed")

		var names []string
		var failure error
		for ref, err := range mock.ListRepos(context.Background()) {
			if err != nil {
				failure = err
				break
			}
			names = append(names, ref.Name)
		}
		assert.Equal(t, []string{"team-a-lab1"}, names)
		require.Error(t, failure)
	})
}

func TestMockProvider_CallTracking(t *testing.T) {
	t.Run("tracks multiple calls", func(t *testing.T) {
		mock := mocks.NewPlatformProvider()

		_, _ = mock.EnsureRepo(context.Background(), platform.RepoSpec{Name: "a"})
		_, _ = mock.EnsureRepo(context.Background(), platform.RepoSpec{Name: "b"})
		_ = mock.EnsureMembers(context.Background(), "a", []string{"alice"}, platform.RolePush)

		assert.Equal(t, 2, mock.GetCallCount("EnsureRepo"))
		assert.Equal(t, 1, mock.GetCallCount("EnsureMembers"))
		assert.Len(t, mock.GetCalls(), 3)
	})

	t.Run("reset clears calls", func(t *testing.T) {
		mock := mocks.NewPlatformProvider()
		_ = mock.Verify(context.Background())
		assert.Equal(t, 1, mock.GetCallCount("Verify"))

		mock.Reset()
		assert.Equal(t, 0, mock.GetCallCount("Verify"))
		assert.Empty(t, mock.GetCalls())
	})

	t.Run("GetLastCall returns nil for uncalled method", func(t *testing.T) {
		mock := mocks.NewPlatformProvider()
		assert.Nil(t, mock.GetLastCall("NeverCalled"))
	})
}
