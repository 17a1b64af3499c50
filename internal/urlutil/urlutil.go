// Package urlutil normalizes the base URLs the platform clients share.
package urlutil

import (
	"regexp"
	"strings"
)

// apiPathPattern matches the REST path suffix self-hosted platforms carry in
// their API base URL: "/api/v3" on GitHub Enterprise, "/api/v4" on GitLab.
var apiPathPattern = regexp.MustCompile(`/api/v\d+$`)

// WebHost turns an API base URL into the web host repositories live under,
// which is also the host HTTPS clones go through. An empty baseURL means the
// public instance, so defaultHost is returned as-is. Trailing slashes and the
// API path suffix are stripped, since self-hosted instances serve the web UI
// and git on the bare host.
//
// Examples:
//
//	WebHost("", "https://github.com")                  → "https://github.com"
//	WebHost("https://github.example.edu/api/v3", ...)  → "https://github.example.edu"
//	WebHost("https://gitlab.example.edu/api/v4/", ...) → "https://gitlab.example.edu"
func WebHost(baseURL, defaultHost string) string {
	if baseURL == "" {
		return defaultHost
	}
	host := strings.TrimRight(baseURL, "/")
	return apiPathPattern.ReplaceAllString(host, "")
}
