package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sgaunet/repoherd/pkg/platform"
	"github.com/sgaunet/repoherd/pkg/roster"
)

// Operation is one unit of course administration applied to a single
// target. Implementations are stateless value types safe for concurrent
// use; all per-run state lives in the Runner.
//
// Apply returns a short human-readable payload for the report (a URL, a
// path, a count). Returning a *SkipError records the target as skipped.
type Operation interface {
	Name() string
	Apply(ctx context.Context, p platform.Provider, target roster.Target) (string, error)
}

// Cloner clones a repository URL into a local directory.
type Cloner interface {
	Clone(ctx context.Context, url, dir string) error
}

// Setup creates the target repository and grants its team members push
// access. Safe to re-run: an existing repository is adopted and membership
// is re-asserted.
type Setup struct {
	Private bool
}

// Name implements Operation.
func (Setup) Name() string { return "setup" }

// Apply implements Operation.
func (s Setup) Apply(ctx context.Context, p platform.Provider, target roster.Target) (string, error) {
	spec := platform.RepoSpec{
		Name:        target.RepoName,
		Description: fmt.Sprintf("%s created for %s", target.RepoName, target.Team.Name),
		Private:     s.Private,
	}
	ref, err := p.EnsureRepo(ctx, spec)
	if err != nil {
		return "", fmt.Errorf("ensure repository: %w", err)
	}
	if err := p.EnsureMembers(ctx, ref.Name, target.Team.Members, platform.RolePush); err != nil {
		return "", fmt.Errorf("ensure members: %w", err)
	}
	return ref.WebURL, nil
}

// UpdateMembers re-asserts team membership on an existing repository.
type UpdateMembers struct {
	// Role granted to every member. Empty means push access.
	Role platform.Role
}

// Name implements Operation.
func (UpdateMembers) Name() string { return "update" }

// Apply implements Operation.
func (u UpdateMembers) Apply(ctx context.Context, p platform.Provider, target roster.Target) (string, error) {
	role := u.Role
	if role == "" {
		role = platform.RolePush
	}
	if err := p.EnsureMembers(ctx, target.RepoName, target.Team.Members, role); err != nil {
		return "", fmt.Errorf("ensure members: %w", err)
	}
	return fmt.Sprintf("%d member(s) ensured", len(target.Team.Members)), nil
}

// OpenIssue opens the same issue in every target repository. Opening is
// deliberately not idempotent: running it twice files the issue twice.
type OpenIssue struct {
	Title string
	Body  string
}

// Name implements Operation.
func (OpenIssue) Name() string { return "open-issue" }

// Apply implements Operation.
func (o OpenIssue) Apply(ctx context.Context, p platform.Provider, target roster.Target) (string, error) {
	issue, err := p.OpenIssue(ctx, target.RepoName, platform.IssueSpec{Title: o.Title, Body: o.Body})
	if err != nil {
		return "", fmt.Errorf("open issue: %w", err)
	}
	return issue.WebURL, nil
}

// CloseIssues closes every open issue whose full title matches Pattern.
// Closing nothing is a success, not an error.
type CloseIssues struct {
	Pattern *regexp.Regexp
}

// Name implements Operation.
func (CloseIssues) Name() string { return "close-issues" }

// Apply implements Operation.
func (c CloseIssues) Apply(ctx context.Context, p platform.Provider, target roster.Target) (string, error) {
	closed, err := p.CloseIssuesMatching(ctx, target.RepoName, c.Pattern)
	if err != nil {
		return "", fmt.Errorf("close issues: %w", err)
	}
	return fmt.Sprintf("closed %d issue(s)", len(closed)), nil
}

// CloneTarget clones the target repository under
// <Workdir>/<team>/<repo>. Targets already on disk are skipped.
type CloneTarget struct {
	Cloner  Cloner
	Workdir string
}

// Name implements Operation.
func (CloneTarget) Name() string { return "clone" }

// Apply implements Operation.
func (c CloneTarget) Apply(ctx context.Context, p platform.Provider, target roster.Target) (string, error) {
	dir := filepath.Join(c.Workdir, target.Team.Name, target.RepoName)
	if _, err := os.Stat(dir); err == nil {
		return "", Skip("already on disk")
	}
	if err := c.Cloner.Clone(ctx, p.CloneURL(target.RepoName), dir); err != nil {
		return "", fmt.Errorf("clone %s: %w", target.RepoName, err)
	}
	return dir, nil
}

var (
	_ Operation = Setup{}
	_ Operation = UpdateMembers{}
	_ Operation = OpenIssue{}
	_ Operation = CloseIssues{}
	_ Operation = CloneTarget{}
)
