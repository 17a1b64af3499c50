package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/go-github/v69/github"

	ghpkg "github.com/sgaunet/repoherd/pkg/github"
)

// GitHubAPIClient is a mock implementation of github.APIClient with call
// tracking. Response fields left at their zero value produce synthetic
// answers derived from the request, so most tests only configure the error
// fields.
type GitHubAPIClient struct {
	mu    sync.Mutex
	calls []MethodCall

	// OrgName is the organization reported by Org. Defaults to "course".
	OrgName string

	// Configurable responses
	GetRepositoryResponse    *github.Repository
	GetRepositoryError       error
	CreateRepositoryResponse *github.Repository
	CreateRepositoryError    error
	RepositoryPages          [][]*github.Repository
	ListRepositoriesError    error
	ListRepositoriesFailPage int
	GetUserErrors            map[string]error
	CurrentUserResponse      *github.User
	CurrentUserError         error
	GetOrganizationError     error
	OrgRole                  string
	GetOrgRoleError          error
	AddCollaboratorError     error
	CreateIssueResponse      *github.Issue
	CreateIssueError         error
	IssuePages               [][]*github.Issue
	ListIssuesError          error
	ListIssuesFailPage       int
	CloseIssueError          error

	issueCounter int
}

// NewGitHubAPIClient creates a new mock GitHub API client.
func NewGitHubAPIClient() *GitHubAPIClient {
	return &GitHubAPIClient{
		calls: make([]MethodCall, 0),
	}
}

// GetRepository implements github.APIClient.
func (m *GitHubAPIClient) GetRepository(_ context.Context, name string) (*github.Repository, error) {
	m.trackCall("GetRepository", map[string]any{
		"name": name,
	})
	if m.GetRepositoryError != nil {
		return nil, m.GetRepositoryError
	}
	if m.GetRepositoryResponse != nil {
		return m.GetRepositoryResponse, nil
	}
	return m.syntheticRepo(name, "", true), nil
}

// CreateRepository implements github.APIClient.
func (m *GitHubAPIClient) CreateRepository(_ context.Context, name, description string, private bool) (*github.Repository, error) {
	m.trackCall("CreateRepository", map[string]any{
		"name":        name,
		"description": description,
		"private":     private,
	})
	if m.CreateRepositoryError != nil {
		return nil, m.CreateRepositoryError
	}
	if m.CreateRepositoryResponse != nil {
		return m.CreateRepositoryResponse, nil
	}
	return m.syntheticRepo(name, description, private), nil
}

// ListRepositoriesPage implements github.APIClient.
func (m *GitHubAPIClient) ListRepositoriesPage(_ context.Context, page int) ([]*github.Repository, int, error) {
	m.trackCall("ListRepositoriesPage", map[string]any{
		"page": page,
	})
	if m.ListRepositoriesError != nil &&
		(m.ListRepositoriesFailPage == 0 || m.ListRepositoriesFailPage == page) {
		return nil, 0, m.ListRepositoriesError
	}
	if page < 1 || page > len(m.RepositoryPages) {
		return nil, 0, nil
	}
	next := 0
	if page < len(m.RepositoryPages) {
		next = page + 1
	}
	return m.RepositoryPages[page-1], next, nil
}

// CloneURL implements github.APIClient.
func (m *GitHubAPIClient) CloneURL(name string) string {
	m.trackCall("CloneURL", map[string]any{
		"name": name,
	})
	return fmt.Sprintf("https://github.example.edu/%s/%s.git", m.org(), name)
}

// Org implements github.APIClient.
func (m *GitHubAPIClient) Org() string {
	return m.org()
}

// GetUser implements github.APIClient.
func (m *GitHubAPIClient) GetUser(_ context.Context, username string) (*github.User, error) {
	m.trackCall("GetUser", map[string]any{
		"username": username,
	})
	if err, ok := m.GetUserErrors[username]; ok {
		return nil, err
	}
	return &github.User{Login: github.Ptr(username)}, nil
}

// CurrentUser implements github.APIClient.
func (m *GitHubAPIClient) CurrentUser(_ context.Context) (*github.User, error) {
	m.trackCall("CurrentUser", map[string]any{})
	if m.CurrentUserError != nil {
		return nil, m.CurrentUserError
	}
	if m.CurrentUserResponse != nil {
		return m.CurrentUserResponse, nil
	}
	return &github.User{Login: github.Ptr("prof")}, nil
}

// GetOrganization implements github.APIClient.
func (m *GitHubAPIClient) GetOrganization(_ context.Context) (*github.Organization, error) {
	m.trackCall("GetOrganization", map[string]any{})
	if m.GetOrganizationError != nil {
		return nil, m.GetOrganizationError
	}
	return &github.Organization{Login: github.Ptr(m.org())}, nil
}

// GetOrgRole implements github.APIClient.
func (m *GitHubAPIClient) GetOrgRole(_ context.Context) (string, error) {
	m.trackCall("GetOrgRole", map[string]any{})
	if m.GetOrgRoleError != nil {
		return "", m.GetOrgRoleError
	}
	if m.OrgRole != "" {
		return m.OrgRole, nil
	}
	return "admin", nil
}

// AddCollaborator implements github.APIClient.
func (m *GitHubAPIClient) AddCollaborator(_ context.Context, repo, username, permission string) error {
	m.trackCall("AddCollaborator", map[string]any{
		"repo":       repo,
		"username":   username,
		"permission": permission,
	})
	return m.AddCollaboratorError
}

// CreateIssue implements github.APIClient.
func (m *GitHubAPIClient) CreateIssue(_ context.Context, repo, title, body string) (*github.Issue, error) {
	m.trackCall("CreateIssue", map[string]any{
		"repo":  repo,
		"title": title,
		"body":  body,
	})
	if m.CreateIssueError != nil {
		return nil, m.CreateIssueError
	}
	if m.CreateIssueResponse != nil {
		return m.CreateIssueResponse, nil
	}
	m.mu.Lock()
	m.issueCounter++
	number := m.issueCounter
	m.mu.Unlock()
	return &github.Issue{
		Number:  github.Ptr(number),
		Title:   github.Ptr(title),
		HTMLURL: github.Ptr(fmt.Sprintf("https://github.example.edu/%s/%s/issues/%d", m.org(), repo, number)),
	}, nil
}

// ListOpenIssuesPage implements github.APIClient.
func (m *GitHubAPIClient) ListOpenIssuesPage(_ context.Context, repo string, page int) ([]*github.Issue, int, error) {
	m.trackCall("ListOpenIssuesPage", map[string]any{
		"repo": repo,
		"page": page,
	})
	if m.ListIssuesError != nil &&
		(m.ListIssuesFailPage == 0 || m.ListIssuesFailPage == page) {
		return nil, 0, m.ListIssuesError
	}
	if page < 1 || page > len(m.IssuePages) {
		return nil, 0, nil
	}
	next := 0
	if page < len(m.IssuePages) {
		next = page + 1
	}
	return m.IssuePages[page-1], next, nil
}

// CloseIssue implements github.APIClient.
func (m *GitHubAPIClient) CloseIssue(_ context.Context, repo string, number int) (*github.Issue, error) {
	m.trackCall("CloseIssue", map[string]any{
		"repo":   repo,
		"number": number,
	})
	if m.CloseIssueError != nil {
		return nil, m.CloseIssueError
	}
	return &github.Issue{
		Number: github.Ptr(number),
		State:  github.Ptr("closed"),
	}, nil
}

func (m *GitHubAPIClient) org() string {
	if m.OrgName != "" {
		return m.OrgName
	}
	return "course"
}

func (m *GitHubAPIClient) syntheticRepo(name, description string, private bool) *github.Repository {
	org := m.org()
	return &github.Repository{
		Name:        github.Ptr(name),
		FullName:    github.Ptr(org + "/" + name),
		Description: github.Ptr(description),
		CloneURL:    github.Ptr(fmt.Sprintf("https://github.example.edu/%s/%s.git", org, name)),
		HTMLURL:     github.Ptr(fmt.Sprintf("https://github.example.edu/%s/%s", org, name)),
		Private:     github.Ptr(private),
	}
}

// GetCalls returns all tracked method calls.
func (m *GitHubAPIClient) GetCalls() []MethodCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MethodCall{}, m.calls...)
}

// GetCallCount returns the number of times a method was called.
func (m *GitHubAPIClient) GetCallCount(method string) int {
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
func (m *GitHubAPIClient) GetLastCall(method string) *MethodCall {
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
func (m *GitHubAPIClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make([]MethodCall, 0)
}

// trackCall records a method call with its arguments.
func (m *GitHubAPIClient) trackCall(method string, args map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MethodCall{
		Method: method,
		Args:   args,
	})
}

// Ensure GitHubAPIClient implements github.APIClient interface.
var _ ghpkg.APIClient = (*GitHubAPIClient)(nil)
