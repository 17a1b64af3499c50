package github

import (
	"context"

	"github.com/google/go-github/v69/github"
)

// APIClient defines the interface for GitHub API operations.
// This interface enables dependency injection and facilitates black box
// testing by allowing mock implementations to replace the real client.
type APIClient interface {
	// GetRepository fetches a repository in the organization by name.
	GetRepository(ctx context.Context, name string) (*github.Repository, error)

	// CreateRepository creates a repository in the organization.
	CreateRepository(ctx context.Context, name, description string, private bool) (*github.Repository, error)

	// ListRepositoriesPage returns one page of organization repositories and
	// the number of the next page, 0 on the last page.
	ListRepositoriesPage(ctx context.Context, page int) ([]*github.Repository, int, error)

	// CloneURL returns the HTTPS clone URL for a repository name.
	CloneURL(name string) string

	// Org returns the organization the client operates on.
	Org() string

	// GetUser fetches a user by username.
	GetUser(ctx context.Context, username string) (*github.User, error)

	// CurrentUser fetches the account the token authenticates as.
	CurrentUser(ctx context.Context) (*github.User, error)

	// GetOrganization fetches the configured organization.
	GetOrganization(ctx context.Context) (*github.Organization, error)

	// GetOrgRole returns the authenticated user's role in the organization.
	GetOrgRole(ctx context.Context) (string, error)

	// AddCollaborator grants a user the given permission on a repository.
	AddCollaborator(ctx context.Context, repo, username, permission string) error

	// CreateIssue opens a new issue on a repository.
	CreateIssue(ctx context.Context, repo, title, body string) (*github.Issue, error)

	// ListOpenIssuesPage returns one page of open issues, pull requests
	// filtered out, and the number of the next page.
	ListOpenIssuesPage(ctx context.Context, repo string, page int) ([]*github.Issue, int, error)

	// CloseIssue closes an issue by number.
	CloseIssue(ctx context.Context, repo string, number int) (*github.Issue, error)
}

// Ensure Client implements APIClient interface at compile time.
var _ APIClient = (*Client)(nil)
