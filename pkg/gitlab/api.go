package gitlab

import (
	"context"
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GetUserByUsername resolves a username to a GitLab user. GitLab has no
// direct lookup-by-username endpoint, so this filters the users listing.
// Returns ErrUserNotFound when no account matches.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*gitlab.User, error) {
	users, _, err := c.client.Users.ListUsers(&gitlab.ListUsersOptions{
		Username: gitlab.Ptr(username),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: %s", errUserNotFound, username)
	}
	return users[0], nil
}

// CurrentUser fetches the account the token authenticates as.
func (c *Client) CurrentUser(ctx context.Context) (*gitlab.User, error) {
	user, _, err := c.client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user, nil
}

// GetGroup fetches the configured group.
func (c *Client) GetGroup(ctx context.Context) (*gitlab.Group, error) {
	group, _, err := c.client.Groups.GetGroup(c.group, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get group %s: %w", c.group, err)
	}
	return group, nil
}

// AddProjectMember adds a user to a project at the given access level.
// Fails with a conflict when the user is already a member; callers fall back
// to [Client.EditProjectMember] for that case.
func (c *Client) AddProjectMember(ctx context.Context, project string, userID int64, level gitlab.AccessLevelValue) error {
	_, _, err := c.client.ProjectMembers.AddProjectMember(c.pid(project), &gitlab.AddProjectMemberOptions{
		UserID:      gitlab.Ptr(userID),
		AccessLevel: gitlab.Ptr(level),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to add member %d: %w", userID, err)
	}
	return nil
}

// EditProjectMember updates the access level of an existing project member.
func (c *Client) EditProjectMember(ctx context.Context, project string, userID int64, level gitlab.AccessLevelValue) error {
	_, _, err := c.client.ProjectMembers.EditProjectMember(c.pid(project), userID, &gitlab.EditProjectMemberOptions{
		AccessLevel: gitlab.Ptr(level),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to update member %d: %w", userID, err)
	}
	return nil
}

// CreateProjectIssue opens a new issue on a project.
func (c *Client) CreateProjectIssue(ctx context.Context, project, title, body string) (*gitlab.Issue, error) {
	issue, _, err := c.client.Issues.CreateIssue(c.pid(project), &gitlab.CreateIssueOptions{
		Title:       gitlab.Ptr(title),
		Description: gitlab.Ptr(body),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// ListOpenIssuesPage returns one page of a project's open issues and the
// number of the next page, 0 when this was the last one.
func (c *Client) ListOpenIssuesPage(ctx context.Context, project string, page int) ([]*gitlab.Issue, int, error) {
	issues, resp, err := c.client.Issues.ListProjectIssues(c.pid(project), &gitlab.ListProjectIssuesOptions{
		State:       gitlab.Ptr("opened"),
		ListOptions: gitlab.ListOptions{Page: int64(page), PerPage: issuesPerPage},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, int(resp.NextPage), nil
}

// CloseIssue closes an issue by IID.
func (c *Client) CloseIssue(ctx context.Context, project string, iid int64) (*gitlab.Issue, error) {
	issue, _, err := c.client.Issues.UpdateIssue(c.pid(project), iid, &gitlab.UpdateIssueOptions{
		StateEvent: gitlab.Ptr("close"),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to close issue #%d: %w", iid, err)
	}
	return issue, nil
}
