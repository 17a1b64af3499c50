package fixtures

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabAPIError returns a client-go error response with the given HTTP
// status. The embedded request is always populated because client-go
// renders it when formatting the error.
func GitLabAPIError(status int) *gitlab.ErrorResponse {
	return &gitlab.ErrorResponse{
		Response: gitlabHTTPResponse(status, nil),
		Message:  http.StatusText(status),
	}
}

// GitLabRateLimitError returns a 429 error response carrying a Retry-After
// header with the given number of seconds.
func GitLabRateLimitError(retryAfterSeconds int) *gitlab.ErrorResponse {
	header := http.Header{}
	header.Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	return &gitlab.ErrorResponse{
		Response: gitlabHTTPResponse(http.StatusTooManyRequests, header),
		Message:  "Rate limit exceeded",
	}
}

// ValidProject returns a private GitLab project under the course group for
// testing.
func ValidProject(name string) *gitlab.Project {
	path := "course/" + name
	return &gitlab.Project{
		ID:                4211,
		Path:              name,
		PathWithNamespace: path,
		HTTPURLToRepo:     fmt.Sprintf("https://gitlab.example.edu/%s.git", path),
		WebURL:            fmt.Sprintf("https://gitlab.example.edu/%s", path),
		Visibility:        gitlab.PrivateVisibility,
	}
}

// ValidGitLabUser returns a GitLab user for testing.
func ValidGitLabUser(id int64, username string) *gitlab.User {
	return &gitlab.User{
		ID:       id,
		Username: username,
	}
}

// ValidGitLabIssue returns an open GitLab issue for testing.
func ValidGitLabIssue(iid int64, title string) *gitlab.Issue {
	return &gitlab.Issue{
		IID:    iid,
		Title:  title,
		State:  "opened",
		WebURL: fmt.Sprintf("https://gitlab.example.edu/course/repo/-/issues/%d", iid),
	}
}

func gitlabHTTPResponse(status int, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Request: &http.Request{
			Method: http.MethodGet,
			URL: &url.URL{
				Scheme: "https",
				Host:   "gitlab.example.edu",
				Path:   "/api/v4/projects",
			},
		},
	}
}
