package gitlab

import (
	"context"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// APIClient defines the interface for GitLab API operations.
// This interface enables dependency injection and facilitates black box
// testing by allowing mock implementations to replace the real client.
type APIClient interface {
	// GetProject fetches a project in the group by name.
	GetProject(ctx context.Context, name string) (*gitlab.Project, error)

	// CreateProject creates a project in the group.
	CreateProject(ctx context.Context, name, description string, private bool) (*gitlab.Project, error)

	// ListProjectsPage returns one page of group projects and the number of
	// the next page, 0 on the last page.
	ListProjectsPage(ctx context.Context, page int) ([]*gitlab.Project, int, error)

	// CloneURL returns the HTTPS clone URL for a project name.
	CloneURL(name string) string

	// GetUserByUsername resolves a username to a GitLab user.
	GetUserByUsername(ctx context.Context, username string) (*gitlab.User, error)

	// CurrentUser fetches the account the token authenticates as.
	CurrentUser(ctx context.Context) (*gitlab.User, error)

	// GetGroup fetches the configured group.
	GetGroup(ctx context.Context) (*gitlab.Group, error)

	// AddProjectMember adds a user to a project at the given access level.
	AddProjectMember(ctx context.Context, project string, userID int64, level gitlab.AccessLevelValue) error

	// EditProjectMember updates the access level of an existing member.
	EditProjectMember(ctx context.Context, project string, userID int64, level gitlab.AccessLevelValue) error

	// CreateProjectIssue opens a new issue on a project.
	CreateProjectIssue(ctx context.Context, project, title, body string) (*gitlab.Issue, error)

	// ListOpenIssuesPage returns one page of open issues and the number of
	// the next page.
	ListOpenIssuesPage(ctx context.Context, project string, page int) ([]*gitlab.Issue, int, error)

	// CloseIssue closes an issue by IID.
	CloseIssue(ctx context.Context, project string, iid int64) (*gitlab.Issue, error)
}

// Ensure Client implements APIClient interface at compile time.
var _ APIClient = (*Client)(nil)
