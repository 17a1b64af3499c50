package roster

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxRepoNameLength is the longest repository name both platforms accept.
	MaxRepoNameLength = 100

	// DefaultNameTemplate joins team and assignment the way course
	// repositories are conventionally named: "<team>-<assignment>".
	DefaultNameTemplate = "{team}-{assignment}"

	placeholderTeam       = "{team}"
	placeholderAssignment = "{assignment}"
)

// repoNamePattern matches names both platforms accept as repository paths.
var repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// RepoName renders the repository name for one team and assignment.
// The template may reference {team} and {assignment}; an empty template
// means [DefaultNameTemplate]. Names that come out empty, overlong, or with
// characters the platforms reject are configuration errors.
func RepoName(template, team, assignment string) (string, error) {
	if template == "" {
		template = DefaultNameTemplate
	}

	name := strings.ReplaceAll(template, placeholderTeam, team)
	name = strings.ReplaceAll(name, placeholderAssignment, assignment)

	if name == "" {
		return "", &ConfigError{Err: errEmptyRepoName}
	}
	if len(name) > MaxRepoNameLength {
		return "", &ConfigError{Err: fmt.Errorf("%w: %q is %d characters, limit is %d",
			errRepoNameTooLong, name, len(name), MaxRepoNameLength)}
	}
	if !repoNamePattern.MatchString(name) {
		return "", &ConfigError{Err: fmt.Errorf("%w: %q", errRepoNameCharset, name)}
	}
	return name, nil
}
