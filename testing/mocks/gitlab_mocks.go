package mocks

import (
	"context"
	"fmt"
	"sync"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	glpkg "github.com/sgaunet/repoherd/pkg/gitlab"
)

// GitLabAPIClient is a mock implementation of gitlab.APIClient with call
// tracking. Response fields left at their zero value produce synthetic
// answers derived from the request, so most tests only configure the error
// fields.
type GitLabAPIClient struct {
	mu    sync.Mutex
	calls []MethodCall

	// GroupPath is the group the synthetic projects live under.
	// Defaults to "course".
	GroupPath string

	// Configurable responses
	GetProjectResponse    *gitlab.Project
	GetProjectError       error
	CreateProjectResponse *gitlab.Project
	CreateProjectError    error
	ProjectPages          [][]*gitlab.Project
	ListProjectsError     error
	ListProjectsFailPage  int
	Users                 map[string]*gitlab.User
	GetUserErrors         map[string]error
	CurrentUserResponse   *gitlab.User
	CurrentUserError      error
	GetGroupError         error
	AddMemberError        error
	EditMemberError       error
	CreateIssueResponse   *gitlab.Issue
	CreateIssueError      error
	IssuePages            [][]*gitlab.Issue
	ListIssuesError       error
	ListIssuesFailPage    int
	CloseIssueError       error

	issueCounter int64
	userCounter  int64
	userIDs      map[string]int64
}

// NewGitLabAPIClient creates a new mock GitLab API client.
func NewGitLabAPIClient() *GitLabAPIClient {
	return &GitLabAPIClient{
		calls:   make([]MethodCall, 0),
		userIDs: make(map[string]int64),
	}
}

// GetProject implements gitlab.APIClient.
func (m *GitLabAPIClient) GetProject(_ context.Context, name string) (*gitlab.Project, error) {
	m.trackCall("GetProject", map[string]any{
		"name": name,
	})
	if m.GetProjectError != nil {
		return nil, m.GetProjectError
	}
	if m.GetProjectResponse != nil {
		return m.GetProjectResponse, nil
	}
	return m.syntheticProject(name, "", true), nil
}

// CreateProject implements gitlab.APIClient.
func (m *GitLabAPIClient) CreateProject(_ context.Context, name, description string, private bool) (*gitlab.Project, error) {
	m.trackCall("CreateProject", map[string]any{
		"name":        name,
		"description": description,
		"private":     private,
	})
	if m.CreateProjectError != nil {
		return nil, m.CreateProjectError
	}
	if m.CreateProjectResponse != nil {
		return m.CreateProjectResponse, nil
	}
	return m.syntheticProject(name, description, private), nil
}

// ListProjectsPage implements gitlab.APIClient.
func (m *GitLabAPIClient) ListProjectsPage(_ context.Context, page int) ([]*gitlab.Project, int, error) {
	m.trackCall("ListProjectsPage", map[string]any{
		"page": page,
	})
	if m.ListProjectsError != nil &&
		(m.ListProjectsFailPage == 0 || m.ListProjectsFailPage == page) {
		return nil, 0, m.ListProjectsError
	}
	if page < 1 || page > len(m.ProjectPages) {
		return nil, 0, nil
	}
	next := 0
	if page < len(m.ProjectPages) {
		next = page + 1
	}
	return m.ProjectPages[page-1], next, nil
}

// CloneURL implements gitlab.APIClient.
func (m *GitLabAPIClient) CloneURL(name string) string {
	m.trackCall("CloneURL", map[string]any{
		"name": name,
	})
	return fmt.Sprintf("https://gitlab.example.edu/%s/%s.git", m.group(), name)
}

// GetUserByUsername implements gitlab.APIClient.
func (m *GitLabAPIClient) GetUserByUsername(_ context.Context, username string) (*gitlab.User, error) {
	m.trackCall("GetUserByUsername", map[string]any{
		"username": username,
	})
	if err, ok := m.GetUserErrors[username]; ok {
		return nil, err
	}
	if user, ok := m.Users[username]; ok {
		return user, nil
	}
	return &gitlab.User{ID: m.userID(username), Username: username}, nil
}

// CurrentUser implements gitlab.APIClient.
func (m *GitLabAPIClient) CurrentUser(_ context.Context) (*gitlab.User, error) {
	m.trackCall("CurrentUser", map[string]any{})
	if m.CurrentUserError != nil {
		return nil, m.CurrentUserError
	}
	if m.CurrentUserResponse != nil {
		return m.CurrentUserResponse, nil
	}
	return &gitlab.User{ID: 1, Username: "prof"}, nil
}

// GetGroup implements gitlab.APIClient.
func (m *GitLabAPIClient) GetGroup(_ context.Context) (*gitlab.Group, error) {
	m.trackCall("GetGroup", map[string]any{})
	if m.GetGroupError != nil {
		return nil, m.GetGroupError
	}
	return &gitlab.Group{ID: 100, FullPath: m.group()}, nil
}

// AddProjectMember implements gitlab.APIClient.
func (m *GitLabAPIClient) AddProjectMember(_ context.Context, project string, userID int64, level gitlab.AccessLevelValue) error {
	m.trackCall("AddProjectMember", map[string]any{
		"project": project,
		"userID":  userID,
		"level":   level,
	})
	return m.AddMemberError
}

// EditProjectMember implements gitlab.APIClient.
func (m *GitLabAPIClient) EditProjectMember(_ context.Context, project string, userID int64, level gitlab.AccessLevelValue) error {
	m.trackCall("EditProjectMember", map[string]any{
		"project": project,
		"userID":  userID,
		"level":   level,
	})
	return m.EditMemberError
}

// CreateProjectIssue implements gitlab.APIClient.
func (m *GitLabAPIClient) CreateProjectIssue(_ context.Context, project, title, body string) (*gitlab.Issue, error) {
	m.trackCall("CreateProjectIssue", map[string]any{
		"project": project,
		"title":   title,
		"body":    body,
	})
	if m.CreateIssueError != nil {
		return nil, m.CreateIssueError
	}
	if m.CreateIssueResponse != nil {
		return m.CreateIssueResponse, nil
	}
	m.mu.Lock()
	m.issueCounter++
	iid := m.issueCounter
	m.mu.Unlock()
	return &gitlab.Issue{
		IID:    iid,
		Title:  title,
		WebURL: fmt.Sprintf("https://gitlab.example.edu/%s/%s/-/issues/%d", m.group(), project, iid),
	}, nil
}

// ListOpenIssuesPage implements gitlab.APIClient.
func (m *GitLabAPIClient) ListOpenIssuesPage(_ context.Context, project string, page int) ([]*gitlab.Issue, int, error) {
	m.trackCall("ListOpenIssuesPage", map[string]any{
		"project": project,
		"page":    page,
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

// CloseIssue implements gitlab.APIClient.
func (m *GitLabAPIClient) CloseIssue(_ context.Context, project string, iid int64) (*gitlab.Issue, error) {
	m.trackCall("CloseIssue", map[string]any{
		"project": project,
		"iid":     iid,
	})
	if m.CloseIssueError != nil {
		return nil, m.CloseIssueError
	}
	return &gitlab.Issue{IID: iid, State: "closed"}, nil
}

func (m *GitLabAPIClient) group() string {
	if m.GroupPath != "" {
		return m.GroupPath
	}
	return "course"
}

func (m *GitLabAPIClient) syntheticProject(name, description string, private bool) *gitlab.Project {
	visibility := gitlab.PublicVisibility
	if private {
		visibility = gitlab.PrivateVisibility
	}
	group := m.group()
	return &gitlab.Project{
		Path:              name,
		PathWithNamespace: group + "/" + name,
		Description:       description,
		HTTPURLToRepo:     fmt.Sprintf("https://gitlab.example.edu/%s/%s.git", group, name),
		WebURL:            fmt.Sprintf("https://gitlab.example.edu/%s/%s", group, name),
		Visibility:        visibility,
	}
}

// userID hands out a stable synthetic ID per username.
func (m *GitLabAPIClient) userID(username string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.userIDs[username]; ok {
		return id
	}
	m.userCounter++
	id := 1000 + m.userCounter
	m.userIDs[username] = id
	return id
}

// GetCalls returns all tracked method calls.
func (m *GitLabAPIClient) GetCalls() []MethodCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MethodCall{}, m.calls...)
}

// GetCallCount returns the number of times a method was called.
func (m *GitLabAPIClient) GetCallCount(method string) int {
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
func (m *GitLabAPIClient) GetLastCall(method string) *MethodCall {
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
func (m *GitLabAPIClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make([]MethodCall, 0)
}

// trackCall records a method call with its arguments.
func (m *GitLabAPIClient) trackCall(method string, args map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MethodCall{
		Method: method,
		Args:   args,
	})
}

// Ensure GitLabAPIClient implements gitlab.APIClient interface.
var _ glpkg.APIClient = (*GitLabAPIClient)(nil)
