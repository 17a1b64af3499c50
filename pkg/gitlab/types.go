package gitlab

import (
	"sync"

	"github.com/sgaunet/bullets"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Constants for GitLab API operations.
const (
	projectsPerPage = 100
	issuesPerPage   = 100

	defaultHost = "https://gitlab.com"
)

// Client represents a GitLab API client wrapper scoped to one group.
type Client struct {
	client *gitlab.Client
	group  string // full group path, may contain subgroups
	host   string // web host for building clone URLs
	log    *bullets.Logger

	// groupID caches the numeric namespace ID needed to create projects.
	mu      sync.Mutex
	groupID int64
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(log *bullets.Logger) {
	c.log = log
}

// Group returns the group path the client operates on.
func (c *Client) Group() string {
	return c.group
}

// pid returns the path-with-namespace identifier client-go accepts for
// project-scoped calls.
func (c *Client) pid(name string) string {
	return c.group + "/" + name
}

// AccessLevel maps a member role name to the GitLab access level granted on
// projects: "pull" becomes Reporter, anything else Developer.
func AccessLevel(role string) gitlab.AccessLevelValue {
	if role == "pull" {
		return gitlab.ReporterPermissions
	}
	return gitlab.DeveloperPermissions
}
