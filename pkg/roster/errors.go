package roster

import "errors"

// Error definitions for roster loading and target resolution.
var (
	errEmptyRoster      = errors.New("students file contains no teams")
	errNotMapping       = errors.New("students file is not a mapping of teams")
	errNoAssignments    = errors.New("no assignments given")
	errEmptyAssignment  = errors.New("assignment name is empty")
	errTeamWithoutName  = errors.New("team entry has an empty name")
	errTeamNoMembers    = errors.New("team has no members")
	errDuplicateTeam    = errors.New("duplicate team name in students file")
	errEmptyRepoName    = errors.New("resolved repository name is empty")
	errRepoNameTooLong  = errors.New("resolved repository name is too long")
	errRepoNameCharset  = errors.New("resolved repository name contains characters the platforms reject")
	errRepoNameConflict = errors.New("two targets resolve to the same repository name")

	// ErrEmptyRoster is returned when the students file yields no teams.
	ErrEmptyRoster = errEmptyRoster
	// ErrNoAssignments is returned when resolution is asked for zero assignments.
	ErrNoAssignments = errNoAssignments
	// ErrRepoNameConflict is returned when two targets collide on one repository name.
	ErrRepoNameConflict = errRepoNameConflict
)

// ConfigError wraps a mistake in the roster, the assignments, or the naming
// template that makes a batch impossible to dispatch safely. Callers treat it
// as fatal before any platform call is made.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is a configuration mistake rather than a
// platform or execution failure.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
