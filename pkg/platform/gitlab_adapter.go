package platform

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"regexp"

	"github.com/sgaunet/bullets"
	glclient "github.com/sgaunet/repoherd/pkg/gitlab"
)

// GitLabAdapter wraps a GitLab client to implement the [Provider] interface.
type GitLabAdapter struct {
	client glclient.APIClient
	log    *bullets.Logger
}

// NewGitLabAdapter creates a new GitLab adapter.
func NewGitLabAdapter(client glclient.APIClient, log *bullets.Logger) *GitLabAdapter {
	return &GitLabAdapter{
		client: client,
		log:    log,
	}
}

// EnsureRepo creates the project in the group, adopting the existing one
// when another actor created it first.
func (a *GitLabAdapter) EnsureRepo(ctx context.Context, spec RepoSpec) (*RepoRef, error) {
	const op = "ensure repo"

	project, err := a.client.CreateProject(ctx, spec.Name, spec.Description, spec.Private)
	if err != nil {
		if !glclient.IsAlreadyExists(err) {
			return nil, a.wrapErr(op, spec.Name, err)
		}
		// Lost the creation race or the project predates this run; adopt it.
		project, err = a.client.GetProject(ctx, spec.Name)
		if err != nil {
			return nil, a.wrapErr(op, spec.Name, err)
		}
		a.log.Debug(fmt.Sprintf("Project %s already exists, reusing it", spec.Name))
	}

	return &RepoRef{
		Name:     project.Path,
		FullName: project.PathWithNamespace,
		CloneURL: project.HTTPURLToRepo,
		WebURL:   project.WebURL,
		Private:  project.Visibility == "private",
	}, nil
}

// EnsureMembers grants each username the given role on the project. Users
// that are already members get their access level updated, so the last run
// wins. Unknown usernames are skipped with a warning.
func (a *GitLabAdapter) EnsureMembers(ctx context.Context, repo string, usernames []string, role Role) error {
	const op = "ensure members"

	level := glclient.AccessLevel(string(role))
	for _, username := range usernames {
		user, err := a.client.GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, glclient.ErrUserNotFound) {
				a.log.Warnf("Skipping unknown user %s on %s", username, repo)
				continue
			}
			return a.wrapErr(op, repo, err)
		}

		err = a.client.AddProjectMember(ctx, repo, int64(user.ID), level)
		if err != nil && glclient.IsAlreadyExists(err) {
			err = a.client.EditProjectMember(ctx, repo, int64(user.ID), level)
		}
		if err != nil {
			return a.wrapErr(op, repo, err)
		}
	}
	return nil
}

// OpenIssue opens a new issue on the project.
func (a *GitLabAdapter) OpenIssue(ctx context.Context, repo string, issue IssueSpec) (*IssueRef, error) {
	created, err := a.client.CreateProjectIssue(ctx, repo, issue.Title, issue.Body)
	if err != nil {
		return nil, a.wrapErr("open issue", repo, err)
	}

	return &IssueRef{
		Number: int64(created.IID),
		Title:  created.Title,
		WebURL: created.WebURL,
	}, nil
}

// CloseIssuesMatching closes every open issue whose full title matches and
// returns what it closed, including the issues already closed when a later
// call fails.
func (a *GitLabAdapter) CloseIssuesMatching(ctx context.Context, repo string, title *regexp.Regexp) ([]IssueRef, error) {
	const op = "close issues"

	var closed []IssueRef
	page := 1
	for {
		issues, next, err := a.client.ListOpenIssuesPage(ctx, repo, page)
		if err != nil {
			return closed, a.wrapErr(op, repo, err)
		}

		for _, issue := range issues {
			if !title.MatchString(issue.Title) {
				continue
			}
			if _, err := a.client.CloseIssue(ctx, repo, int64(issue.IID)); err != nil {
				return closed, a.wrapErr(op, repo, err)
			}
			closed = append(closed, IssueRef{
				Number: int64(issue.IID),
				Title:  issue.Title,
				WebURL: issue.WebURL,
			})
		}

		if next == 0 {
			return closed, nil
		}
		page = next
	}
}

// CloneURL returns the HTTPS clone URL for a project name.
func (a *GitLabAdapter) CloneURL(repo string) string {
	return a.client.CloneURL(repo)
}

// ListRepos streams every project in the group, one API page at a time.
func (a *GitLabAdapter) ListRepos(ctx context.Context) iter.Seq2[RepoRef, error] {
	return func(yield func(RepoRef, error) bool) {
		page := 1
		for {
			projects, next, err := a.client.ListProjectsPage(ctx, page)
			if err != nil {
				yield(RepoRef{}, a.wrapErr("list repos", "", err))
				return
			}

			for _, project := range projects {
				ref := RepoRef{
					Name:     project.Path,
					FullName: project.PathWithNamespace,
					CloneURL: project.HTTPURLToRepo,
					WebURL:   project.WebURL,
					Private:  project.Visibility == "private",
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

// Verify checks the token and the group.
func (a *GitLabAdapter) Verify(ctx context.Context) error {
	const op = "verify"

	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return a.wrapErr(op, "", err)
	}
	a.log.Infof("Authenticated as %s", user.Username)

	group, err := a.client.GetGroup(ctx)
	if err != nil {
		return a.wrapErr(op, "", err)
	}
	a.log.Infof("Group %s reachable", group.FullPath)
	return nil
}

// PlatformName returns "GitLab".
func (a *GitLabAdapter) PlatformName() string {
	return "GitLab"
}

// wrapErr classifies a client error into a *Error for the batch layer.
func (a *GitLabAdapter) wrapErr(op, repo string, err error) error {
	retryAfter, limited := glclient.RetryAfter(err)

	wrapped := err
	switch {
	case glclient.IsNotFound(err):
		wrapped = fmt.Errorf("%w: %w", ErrNotFound, err)
	case glclient.IsBadCredentials(err):
		wrapped = fmt.Errorf("%w: %w", ErrBadCredentials, err)
	}

	return &Error{
		Op:          op,
		Repo:        repo,
		Status:      glclient.StatusCode(err),
		Transient:   glclient.IsTransient(err),
		RateLimited: limited,
		RetryAfter:  retryAfter,
		Err:         wrapped,
	}
}

// Compile-time interface check.
var _ Provider = (*GitLabAdapter)(nil)
