package platform

import (
	"context"
	"fmt"
	"iter"
	"regexp"
)

// Provider defines the unified interface for GitLab and GitHub repository
// administration. Implementations classify every failure as a [*Error] so the
// batch layer can tell transient faults from permanent ones.
type Provider interface {
	// EnsureRepo creates the repository, or fetches it when it already
	// exists. Safe to race with other actors creating the same name: the
	// first writer wins and later callers observe the existing repository.
	EnsureRepo(ctx context.Context, spec RepoSpec) (*RepoRef, error)

	// EnsureMembers grants each username the given role on the repository.
	// Members that already hold a role are updated to the new one, never
	// duplicated. Usernames unknown to the platform are skipped with a
	// warning so one typo cannot sink the whole target.
	EnsureMembers(ctx context.Context, repo string, usernames []string, role Role) error

	// OpenIssue opens a new issue. Calling it twice opens two issues.
	OpenIssue(ctx context.Context, repo string, issue IssueSpec) (*IssueRef, error)

	// CloseIssuesMatching closes every open issue whose full title matches
	// title and returns the issues it closed. Compile title with
	// [CompileTitlePattern] so partial matches do not count.
	CloseIssuesMatching(ctx context.Context, repo string, title *regexp.Regexp) ([]IssueRef, error)

	// CloneURL returns the HTTPS clone URL for a repository name. It is
	// computed locally, without network access, and never embeds credentials.
	CloneURL(repo string) string

	// ListRepos streams every repository in the organization. The sequence
	// yields a non-nil error and stops when a page fetch fails; ranging
	// again restarts the listing from the beginning.
	ListRepos(ctx context.Context) iter.Seq2[RepoRef, error]

	// Verify checks that the token authenticates and that the organization
	// is reachable with sufficient access. Meant as a preflight before
	// dispatching a batch.
	Verify(ctx context.Context) error

	// PlatformName returns "GitLab" or "GitHub".
	PlatformName() string
}

// CompileTitlePattern compiles a close-issues title pattern so that it must
// match the whole title: "assignment-1" closes issues titled "assignment-1"
// but not "assignment-10".
func CompileTitlePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid title pattern %q: %w", pattern, err)
	}
	return re, nil
}
