// Package platform provides a unified abstraction layer for GitLab and GitHub
// repository administration.
//
// The [Provider] interface defines a common API for the bulk operations that
// course administration needs across many student repositories: idempotent
// repository and membership setup, issue management, and repository discovery.
// This allows the batch orchestration logic to be platform-agnostic.
//
// Use [NewProvider] to create the appropriate adapter for the configured
// platform:
//
//	provider, err := platform.NewProvider(platform.KindGitHub, cfg, token, logger)
//	repo, _ := provider.EnsureRepo(ctx, platform.RepoSpec{Name: "alice-task-1", Private: true})
//	_ = provider.EnsureMembers(ctx, repo.Name, []string{"alice"}, platform.RolePush)
//	issue, _ := provider.OpenIssue(ctx, repo.Name, platform.IssueSpec{Title: "Grading feedback"})
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// RepoRef identifies a repository that exists on the platform.
type RepoRef struct {
	Name     string // Repository name without the org/group prefix
	FullName string // GitLab: path with namespace; GitHub: owner/name
	CloneURL string // HTTPS clone URL, never carries credentials
	WebURL   string // Browser URL
	Private  bool
}

// RepoSpec describes a repository to create or fetch.
type RepoSpec struct {
	Name        string
	Description string
	Private     bool
}

// IssueRef identifies an issue on the platform.
type IssueRef struct {
	Number int64  // GitLab: issue IID; GitHub: issue number
	Title  string
	WebURL string
}

// IssueSpec holds parameters for opening an issue. Assignees are not
// included; bulk-opened issues are notifications, not task assignments.
type IssueSpec struct {
	Title string
	Body  string
}

// Role is the access level granted when adding members to a repository.
type Role string

// Supported member roles.
const (
	// RolePush grants read/write access (GitHub "push", GitLab Developer).
	RolePush Role = "push"
	// RolePull grants read-only access (GitHub "pull", GitLab Reporter).
	RolePull Role = "pull"
)

// errUnknownRole is returned when a role string is not recognized.
var errUnknownRole = errors.New("unknown member role")

// ParseRole converts a configured role name into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(s)) {
	case RolePush:
		return RolePush, nil
	case RolePull:
		return RolePull, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", errUnknownRole, s, RolePush, RolePull)
	}
}
