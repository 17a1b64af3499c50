package platform

import (
	"context"
	"fmt"
	"iter"
	"regexp"

	"github.com/sgaunet/bullets"
	ghclient "github.com/sgaunet/repoherd/pkg/github"
)

// GitHubAdapter wraps a GitHub client to implement the [Provider] interface.
// It translates between the platform-agnostic types and the GitHub-specific
// API, and classifies every failure into a [*Error].
type GitHubAdapter struct {
	client ghclient.APIClient
	log    *bullets.Logger
}

// NewGitHubAdapter creates a new GitHub adapter.
func NewGitHubAdapter(client ghclient.APIClient, log *bullets.Logger) *GitHubAdapter {
	return &GitHubAdapter{
		client: client,
		log:    log,
	}
}

// EnsureRepo creates the repository in the organization, adopting the
// existing one when another actor created it first.
func (a *GitHubAdapter) EnsureRepo(ctx context.Context, spec RepoSpec) (*RepoRef, error) {
	const op = "ensure repo"

	repo, err := a.client.CreateRepository(ctx, spec.Name, spec.Description, spec.Private)
	if err != nil {
		if !ghclient.IsAlreadyExists(err) {
			return nil, a.wrapErr(op, spec.Name, err)
		}
		// Lost the creation race or the repo predates this run; adopt it.
		repo, err = a.client.GetRepository(ctx, spec.Name)
		if err != nil {
			return nil, a.wrapErr(op, spec.Name, err)
		}
		a.log.Debug(fmt.Sprintf("Repository %s already exists, reusing it", spec.Name))
	}

	return &RepoRef{
		Name:     repo.GetName(),
		FullName: repo.GetFullName(),
		CloneURL: repo.GetCloneURL(),
		WebURL:   repo.GetHTMLURL(),
		Private:  repo.GetPrivate(),
	}, nil
}

// EnsureMembers grants each username the given role as a repository
// collaborator. GitHub treats collaborator addition as an upsert, so
// re-running updates permissions instead of failing. Unknown usernames are
// skipped with a warning.
func (a *GitHubAdapter) EnsureMembers(ctx context.Context, repo string, usernames []string, role Role) error {
	const op = "ensure members"

	permission := githubPermission(role)
	for _, username := range usernames {
		if _, err := a.client.GetUser(ctx, username); err != nil {
			if ghclient.IsNotFound(err) {
				a.log.Warnf("Skipping unknown user %s on %s", username, repo)
				continue
			}
			return a.wrapErr(op, repo, err)
		}

		if err := a.client.AddCollaborator(ctx, repo, username, permission); err != nil {
			return a.wrapErr(op, repo, err)
		}
	}
	return nil
}

// OpenIssue opens a new issue on the repository.
func (a *GitHubAdapter) OpenIssue(ctx context.Context, repo string, issue IssueSpec) (*IssueRef, error) {
	created, err := a.client.CreateIssue(ctx, repo, issue.Title, issue.Body)
	if err != nil {
		return nil, a.wrapErr("open issue", repo, err)
	}

	return &IssueRef{
		Number: int64(created.GetNumber()),
		Title:  created.GetTitle(),
		WebURL: created.GetHTMLURL(),
	}, nil
}

// CloseIssuesMatching closes every open issue whose full title matches and
// returns what it closed, including the issues already closed when a later
// call fails.
func (a *GitHubAdapter) CloseIssuesMatching(ctx context.Context, repo string, title *regexp.Regexp) ([]IssueRef, error) {
	const op = "close issues"

	var closed []IssueRef
	page := 1
	for {
		issues, next, err := a.client.ListOpenIssuesPage(ctx, repo, page)
		if err != nil {
			return closed, a.wrapErr(op, repo, err)
		}

		for _, issue := range issues {
			if !title.MatchString(issue.GetTitle()) {
				continue
			}
			if _, err := a.client.CloseIssue(ctx, repo, issue.GetNumber()); err != nil {
				return closed, a.wrapErr(op, repo, err)
			}
			closed = append(closed, IssueRef{
				Number: int64(issue.GetNumber()),
				Title:  issue.GetTitle(),
				WebURL: issue.GetHTMLURL(),
			})
		}

		if next == 0 {
			return closed, nil
		}
		page = next
	}
}

// CloneURL returns the HTTPS clone URL for a repository name.
func (a *GitHubAdapter) CloneURL(repo string) string {
	return a.client.CloneURL(repo)
}

// ListRepos streams every repository in the organization, one API page at a
// time.
func (a *GitHubAdapter) ListRepos(ctx context.Context) iter.Seq2[RepoRef, error] {
	return func(yield func(RepoRef, error) bool) {
		page := 1
		for {
			repos, next, err := a.client.ListRepositoriesPage(ctx, page)
			if err != nil {
				yield(RepoRef{}, a.wrapErr("list repos", "", err))
				return
			}

			for _, repo := range repos {
				ref := RepoRef{
					Name:     repo.GetName(),
					FullName: repo.GetFullName(),
					CloneURL: repo.GetCloneURL(),
					WebURL:   repo.GetHTMLURL(),
					Private:  repo.GetPrivate(),
				}
				if !yield(ref, nil) {
					return
				}
			}

			if next == 0 {
				return
			}
			page = next
		}
	}
}

// Verify checks the token, the organization, and the caller's role in it.
func (a *GitHubAdapter) Verify(ctx context.Context) error {
	const op = "verify"

	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return a.wrapErr(op, "", err)
	}
	a.log.Infof("Authenticated as %s", user.GetLogin())

	if _, err := a.client.GetOrganization(ctx); err != nil {
		return a.wrapErr(op, "", err)
	}

	role, err := a.client.GetOrgRole(ctx)
	if err != nil {
		return a.wrapErr(op, "", err)
	}
	a.log.Infof("Organization %s reachable, role: %s", a.client.Org(), role)
	return nil
}

// PlatformName returns "GitHub".
func (a *GitHubAdapter) PlatformName() string {
	return "GitHub"
}

// wrapErr classifies a client error into a *Error for the batch layer.
func (a *GitHubAdapter) wrapErr(op, repo string, err error) error {
	retryAfter, limited := ghclient.RetryAfter(err)

	wrapped := err
	switch {
	case ghclient.IsNotFound(err):
		wrapped = fmt.Errorf("%w: %w", ErrNotFound, err)
	case ghclient.IsBadCredentials(err):
		wrapped = fmt.Errorf("%w: %w", ErrBadCredentials, err)
	}

	return &Error{
		Op:          op,
		Repo:        repo,
		Status:      ghclient.StatusCode(err),
		Transient:   ghclient.IsTransient(err),
		RateLimited: limited,
		RetryAfter:  retryAfter,
		Err:         wrapped,
	}
}

// githubPermission maps a member role to the GitHub collaborator permission.
func githubPermission(role Role) string {
	if role == RolePull {
		return "pull"
	}
	return "push"
}

// Compile-time interface check.
var _ Provider = (*GitHubAdapter)(nil)
