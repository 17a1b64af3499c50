package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v69/github"
)

// GetUser fetches a user by username. Returns a 404-carrying error when the
// account does not exist, which callers use to skip unknown students.
func (c *Client) GetUser(ctx context.Context, username string) (*github.User, error) {
	user, _, err := c.client.Users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return user, nil
}

// CurrentUser fetches the account the token authenticates as.
func (c *Client) CurrentUser(ctx context.Context) (*github.User, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user, nil
}

// GetOrganization fetches the configured organization.
func (c *Client) GetOrganization(ctx context.Context) (*github.Organization, error) {
	org, _, err := c.client.Organizations.Get(ctx, c.org)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization %s: %w", c.org, err)
	}
	return org, nil
}

// GetOrgRole returns the authenticated user's role in the organization
// ("admin" or "member").
func (c *Client) GetOrgRole(ctx context.Context) (string, error) {
	membership, _, err := c.client.Organizations.GetOrgMembership(ctx, "", c.org)
	if err != nil {
		return "", fmt.Errorf("failed to get organization membership: %w", err)
	}
	return membership.GetRole(), nil
}

// AddCollaborator grants a user the given permission on a repository.
// GitHub treats the call as an upsert: re-adding an existing collaborator
// updates the permission instead of failing.
func (c *Client) AddCollaborator(ctx context.Context, repo, username, permission string) error {
	_, _, err := c.client.Repositories.AddCollaborator(ctx, c.org, repo, username,
		&github.RepositoryAddCollaboratorOptions{Permission: permission})
	if err != nil {
		return fmt.Errorf("failed to add collaborator %s: %w", username, err)
	}
	c.log.Debug(fmt.Sprintf("Granted %s %s on %s/%s", username, permission, c.org, repo))
	return nil
}

// CreateIssue opens a new issue on a repository.
func (c *Client) CreateIssue(ctx context.Context, repo, title, body string) (*github.Issue, error) {
	issue, _, err := c.client.Issues.Create(ctx, c.org, repo, &github.IssueRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// ListOpenIssuesPage returns one page of a repository's open issues and the
// number of the next page, 0 when this was the last one. Pull requests, which
// the issues endpoint also reports, are filtered out.
func (c *Client) ListOpenIssuesPage(ctx context.Context, repo string, page int) ([]*github.Issue, int, error) {
	issues, resp, err := c.client.Issues.ListByRepo(ctx, c.org, repo, &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{Page: page, PerPage: issuesPerPage},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}

	result := make([]*github.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		result = append(result, issue)
	}
	return result, resp.NextPage, nil
}

// CloseIssue closes an issue by number.
func (c *Client) CloseIssue(ctx context.Context, repo string, number int) (*github.Issue, error) {
	issue, _, err := c.client.Issues.Edit(ctx, c.org, repo, number, &github.IssueRequest{
		State: github.Ptr("closed"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to close issue #%d: %w", number, err)
	}
	return issue, nil
}
