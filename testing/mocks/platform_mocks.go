// Package mocks provides hand-rolled mock implementations with call
// tracking for the repoherd interfaces.
package mocks

import (
	"context"
	"iter"
	"regexp"
	"sync"

	"github.com/sgaunet/repoherd/pkg/platform"
)

// MethodCall represents a tracked method call with its parameters.
type MethodCall struct {
	Method string
	Args   map[string]any
}

// PlatformProvider is a mock implementation of platform.Provider with call
// tracking. Response fields left at their zero value produce sensible
// synthetic answers derived from the request, so most tests only configure
// the error fields.
type PlatformProvider struct {
	mu    sync.Mutex
	calls []MethodCall

	// Configurable responses
	EnsureRepoResponse  *platform.RepoRef
	EnsureRepoError     error
	EnsureMembersError  error
	OpenIssueResponse   *platform.IssueRef
	OpenIssueError      error
	CloseIssuesResponse []platform.IssueRef
	CloseIssuesError    error
	ListReposResponse   []platform.RepoRef
	ListReposError      error
	VerifyError         error
	CloneURLPrefix      string
	PlatformNameValue   string

	issueCounter int64
}

// NewPlatformProvider creates a new mock platform provider.
func NewPlatformProvider() *PlatformProvider {
	return &PlatformProvider{
		calls:             make([]MethodCall, 0),
		CloneURLPrefix:    "https://example.com/course/",
		PlatformNameValue: "MockPlatform",
	}
}

// EnsureRepo implements platform.Provider.
func (m *PlatformProvider) EnsureRepo(ctx context.Context, spec platform.RepoSpec) (*platform.RepoRef, error) {
	m.trackCall("EnsureRepo", map[string]any{
		"name":        spec.Name,
		"description": spec.Description,
		"private":     spec.Private,
	})
	if m.EnsureRepoError != nil {
		return nil, m.EnsureRepoError
	}
	if m.EnsureRepoResponse != nil {
		return m.EnsureRepoResponse, nil
	}
	return &platform.RepoRef{
		Name:     spec.Name,
		FullName: "course/" + spec.Name,
		CloneURL: m.CloneURLPrefix + spec.Name + ".git",
		WebURL:   m.CloneURLPrefix + spec.Name,
		Private:  spec.Private,
	}, nil
}

// EnsureMembers implements platform.Provider.
func (m *PlatformProvider) EnsureMembers(ctx context.Context, repo string, usernames []string, role platform.Role) error {
	m.trackCall("EnsureMembers", map[string]any{
		"repo":      repo,
		"usernames": usernames,
		"role":      role,
	})
	return m.EnsureMembersError
}

// OpenIssue implements platform.Provider.
func (m *PlatformProvider) OpenIssue(ctx context.Context, repo string, issue platform.IssueSpec) (*platform.IssueRef, error) {
	m.trackCall("OpenIssue", map[string]any{
		"repo":  repo,
		"title": issue.Title,
		"body":  issue.Body,
	})
	if m.OpenIssueError != nil {
		return nil, m.OpenIssueError
	}
	if m.OpenIssueResponse != nil {
		return m.OpenIssueResponse, nil
	}
	m.mu.Lock()
	m.issueCounter++
	number := m.issueCounter
	m.mu.Unlock()
	return &platform.IssueRef{
		Number: number,
		Title:  issue.Title,
		WebURL: m.CloneURLPrefix + repo + "/issues",
	}, nil
}

// CloseIssuesMatching implements platform.Provider.
func (m *PlatformProvider) CloseIssuesMatching(ctx context.Context, repo string, title *regexp.Regexp) ([]platform.IssueRef, error) {
	m.trackCall("CloseIssuesMatching", map[string]any{
		"repo":    repo,
		"pattern": title.String(),
	})
	return m.CloseIssuesResponse, m.CloseIssuesError
}

// CloneURL implements platform.Provider.
func (m *PlatformProvider) CloneURL(repo string) string {
	m.trackCall("CloneURL", map[string]any{
		"repo": repo,
	})
	return m.CloneURLPrefix + repo + ".git"
}

// ListRepos implements platform.Provider.
func (m *PlatformProvider) ListRepos(ctx context.Context) iter.Seq2[platform.RepoRef, error] {
	m.trackCall("ListRepos", map[string]any{})
	return func(yield func(platform.RepoRef, error) bool) {
		for _, repo := range m.ListReposResponse {
			if !yield(repo, nil) {
				return
			}
		}
		if m.ListReposError != nil {
			yield(platform.RepoRef{}, m.ListReposError)
		}
	}
}

// Verify implements platform.Provider.
func (m *PlatformProvider) Verify(ctx context.Context) error {
	m.trackCall("Verify", map[string]any{})
	return m.VerifyError
}

// PlatformName implements platform.Provider.
func (m *PlatformProvider) PlatformName() string {
	return m.PlatformNameValue
}

// GetCalls returns all tracked method calls.
func (m *PlatformProvider) GetCalls() []MethodCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MethodCall{}, m.calls...)
}

// GetCallCount returns the number of times a method was called.
func (m *PlatformProvider) GetCallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// GetLastCall returns the last call to the specified method, or nil if not called.
func (m *PlatformProvider) GetLastCall(method string) *MethodCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Method == method {
			return &m.calls[i]
		}
	}
	return nil
}

// Reset clears all tracked calls.
func (m *PlatformProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make([]MethodCall, 0)
}

// trackCall records a method call with its arguments.
func (m *PlatformProvider) trackCall(method string, args map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MethodCall{
		Method: method,
		Args:   args,
	})
}

// Ensure PlatformProvider implements platform.Provider interface.
var _ platform.Provider = (*PlatformProvider)(nil)
