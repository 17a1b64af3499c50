// Package gitlab provides GitLab API client operations for group project
// administration.
package gitlab

import (
	"context"
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/sgaunet/repoherd/internal/logger"
	"github.com/sgaunet/repoherd/internal/security"
	"github.com/sgaunet/repoherd/internal/urlutil"
)

// NewClient creates a new GitLab client scoped to a group.
// An empty baseURL targets gitlab.com; otherwise baseURL is the self-hosted
// instance to talk to.
func NewClient(token security.SecureToken, group, baseURL string) (*Client, error) {
	if token.IsEmpty() {
		return nil, errTokenRequired
	}
	if group == "" {
		return nil, errGroupRequired
	}

	var opts []gitlab.ClientOptionFunc
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token.Value(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &Client{
		client: client,
		group:  group,
		host:   urlutil.WebHost(baseURL, defaultHost),
		log:    logger.NoLogger(),
	}, nil
}

// GetProject fetches a project in the group by name.
func (c *Client) GetProject(ctx context.Context, name string) (*gitlab.Project, error) {
	project, _, err := c.client.Projects.GetProject(c.pid(name), nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// CreateProject creates a project in the group.
func (c *Client) CreateProject(ctx context.Context, name, description string, private bool) (*gitlab.Project, error) {
	namespaceID, err := c.resolveGroupID(ctx)
	if err != nil {
		return nil, err
	}

	visibility := gitlab.PublicVisibility
	if private {
		visibility = gitlab.PrivateVisibility
	}

	project, _, err := c.client.Projects.CreateProject(&gitlab.CreateProjectOptions{
		Name:        gitlab.Ptr(name),
		Path:        gitlab.Ptr(name),
		Description: gitlab.Ptr(description),
		NamespaceID: gitlab.Ptr(namespaceID),
		Visibility:  gitlab.Ptr(visibility),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	c.log.Debug(fmt.Sprintf("Created project %s", project.PathWithNamespace))
	return project, nil
}

// ListProjectsPage returns one page of the group's projects, subgroup
// projects included, and the number of the next page, 0 when this was the
// last one.
func (c *Client) ListProjectsPage(ctx context.Context, page int) ([]*gitlab.Project, int, error) {
	projects, resp, err := c.client.Groups.ListGroupProjects(c.group, &gitlab.ListGroupProjectsOptions{
		ListOptions:      gitlab.ListOptions{Page: int64(page), PerPage: projectsPerPage},
		IncludeSubGroups: gitlab.Ptr(true),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, int(resp.NextPage), nil
}

// CloneURL returns the HTTPS clone URL for a project name. Built locally
// from the configured host, so it works before the project is fetched and
// never carries credentials.
func (c *Client) CloneURL(name string) string {
	return fmt.Sprintf("%s/%s/%s.git", c.host, c.group, name)
}

// resolveGroupID resolves and caches the numeric ID of the configured group.
func (c *Client) resolveGroupID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.groupID != 0 {
		return c.groupID, nil
	}

	group, _, err := c.client.Groups.GetGroup(c.group, nil, gitlab.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to resolve group %s: %w", c.group, err)
	}

	c.groupID = group.ID
	return c.groupID, nil
}
