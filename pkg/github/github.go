// Package github provides GitHub API client operations for organization
// repository administration.
package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v69/github"
	"golang.org/x/oauth2"

	"github.com/sgaunet/repoherd/internal/logger"
	"github.com/sgaunet/repoherd/internal/security"
	"github.com/sgaunet/repoherd/internal/urlutil"
)

// NewClient creates a new GitHub client scoped to an organization.
// An empty baseURL targets github.com; otherwise baseURL is treated as a
// GitHub Enterprise endpoint.
func NewClient(token security.SecureToken, org, baseURL string) (*Client, error) {
	if token.IsEmpty() {
		return nil, errTokenRequired
	}
	if org == "" {
		return nil, errOrgRequired
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token.Value()},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)

	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URLs: %w", err)
		}
	}

	return &Client{
		client: client,
		org:    org,
		host:   urlutil.WebHost(baseURL, defaultHost),
		log:    logger.NoLogger(),
	}, nil
}

// GetRepository fetches a repository in the organization by name.
func (c *Client) GetRepository(ctx context.Context, name string) (*github.Repository, error) {
	repo, _, err := c.client.Repositories.Get(ctx, c.org, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return repo, nil
}

// CreateRepository creates a repository in the organization.
func (c *Client) CreateRepository(ctx context.Context, name, description string, private bool) (*github.Repository, error) {
	repo, _, err := c.client.Repositories.Create(ctx, c.org, &github.Repository{
		Name:        github.Ptr(name),
		Description: github.Ptr(description),
		Private:     github.Ptr(private),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	c.log.Debug(fmt.Sprintf("Created repository %s/%s", c.org, name))
	return repo, nil
}

// ListRepositoriesPage returns one page of the organization's repositories
// and the number of the next page, 0 when this was the last one.
func (c *Client) ListRepositoriesPage(ctx context.Context, page int) ([]*github.Repository, int, error) {
	repos, resp, err := c.client.Repositories.ListByOrg(ctx, c.org, &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: reposPerPage},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list repositories: %w", err)
	}
	return repos, resp.NextPage, nil
}

// CloneURL returns the HTTPS clone URL for a repository name. Built locally
// from the configured host, so it works before the repository is fetched and
// never carries credentials.
func (c *Client) CloneURL(name string) string {
	return fmt.Sprintf("%s/%s/%s.git", c.host, c.org, name)
}
