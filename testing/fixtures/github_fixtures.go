// Package fixtures provides common test data structures for testing.
package fixtures

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v69/github"
)

// GitHubAPIError returns a go-github error response with the given HTTP
// status, shaped like the real client produces it.
func GitHubAPIError(status int) *github.ErrorResponse {
	return &github.ErrorResponse{
		Response: githubHTTPResponse(status),
		Message:  http.StatusText(status),
	}
}

// GitHubRateLimitError returns a primary rate limit error whose limit
// window resets at the given time.
func GitHubRateLimitError(reset time.Time) *github.RateLimitError {
	return &github.RateLimitError{
		Rate: github.Rate{
			Limit:     5000,
			Remaining: 0,
			Reset:     github.Timestamp{Time: reset},
		},
		Response: githubHTTPResponse(http.StatusForbidden),
		Message:  "API rate limit exceeded",
	}
}

// GitHubAbuseError returns a secondary rate limit error asking the caller
// to retry after the given duration.
func GitHubAbuseError(retryAfter time.Duration) *github.AbuseRateLimitError {
	return &github.AbuseRateLimitError{
		Response:   githubHTTPResponse(http.StatusForbidden),
		Message:    "You have exceeded a secondary rate limit",
		RetryAfter: &retryAfter,
	}
}

// ValidRepository returns a GitHub repository under the course org for
// testing.
func ValidRepository(name string) *github.Repository {
	fullName := "course/" + name
	return &github.Repository{
		Name:     github.Ptr(name),
		FullName: github.Ptr(fullName),
		Private:  github.Ptr(true),
		CloneURL: github.Ptr(fmt.Sprintf("https://github.example.edu/%s.git", fullName)),
		HTMLURL:  github.Ptr(fmt.Sprintf("https://github.example.edu/%s", fullName)),
	}
}

// ValidIssue returns an open GitHub issue for testing.
func ValidIssue(number int, title string) *github.Issue {
	return &github.Issue{
		Number:  github.Ptr(number),
		Title:   github.Ptr(title),
		State:   github.Ptr("open"),
		HTMLURL: github.Ptr(fmt.Sprintf("https://github.example.edu/course/repo/issues/%d", number)),
	}
}

func githubHTTPResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Request: &http.Request{
			Method: http.MethodGet,
			URL: &url.URL{
				Scheme: "https",
				Host:   "api.github.com",
				Path:   "/repos/course/repo",
			},
		},
	}
}
