package security

import (
	"errors"
	"regexp"
	"strings"
)

// Credential shapes that may surface in error messages. Platform and git
// errors happily echo the request that failed, including the URL or header
// carrying the token, so anything headed for a terminal or a report goes
// through SanitizeString first.
var (
	// GitLab personal access tokens. Real ones are 20+ characters; the
	// lower bound is deliberately loose so truncated tokens still match.
	gitlabTokenPattern = regexp.MustCompile(`glpat-[a-zA-Z0-9_-]{6,}`)

	// GitHub personal, OAuth and server tokens (ghp_, gho_, ghs_).
	githubTokenPattern = regexp.MustCompile(`gh[ops]_[a-zA-Z0-9]{20,}`)

	// Authorization header values, both Bearer and Basic.
	authHeaderPattern = regexp.MustCompile(`(?i)authorization:\s*(?:bearer|basic)\s+[a-zA-Z0-9+/=_-]{10,}`)

	// Long base64-looking runs that could be a credential of some other
	// shape. Applied last, and only when no platform token survived the
	// specific patterns above.
	genericSecretPattern = regexp.MustCompile(`\b[A-Za-z0-9+/=]{40,200}\b`)
)

var platformTokenPrefixes = []string{"glpat-", "ghp_", "gho_", "ghs_"}

// SanitizeString scrubs platform credentials from s. GitLab tokens, GitHub
// tokens and Authorization headers are each replaced with a marker naming
// what was removed, then any remaining long base64-like run is redacted as a
// generic token. The rest of the message is left alone so failure output
// stays diagnosable.
func SanitizeString(s string) string {
	s = gitlabTokenPattern.ReplaceAllString(s, "[gitlab-token-redacted]")
	s = githubTokenPattern.ReplaceAllString(s, "[github-token-redacted]")
	s = authHeaderPattern.ReplaceAllString(s, "Authorization: [redacted]")

	// A platform token prefix still present at this point means a token too
	// short for the patterns above; leave the string as is rather than let
	// the generic pattern mangle unrelated text around it.
	for _, prefix := range platformTokenPrefixes {
		if strings.Contains(s, prefix) {
			return s
		}
	}
	return genericSecretPattern.ReplaceAllString(s, "[token-redacted]")
}

// SanitizeError returns an error carrying err's message with [SanitizeString]
// applied. Returns nil if err is nil. The original chain is dropped
// deliberately: sanitized errors are for display at the process edge, after
// all errors.Is inspection has happened.
func SanitizeError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(SanitizeString(err.Error()))
}
