package github

import (
	"github.com/google/go-github/v69/github"
	"github.com/sgaunet/bullets"
)

// Constants for GitHub API operations.
const (
	reposPerPage  = 100
	issuesPerPage = 100

	defaultHost = "https://github.com"
)

// Client represents a GitHub API client wrapper scoped to one organization.
type Client struct {
	client *github.Client
	org    string
	host   string // web host for building clone URLs
	log    *bullets.Logger
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(log *bullets.Logger) {
	c.log = log
}

// Org returns the organization the client operates on.
func (c *Client) Org() string {
	return c.org
}
