package roster

import (
	"fmt"
	"strings"
)

// Resolve crosses every team with every assignment and renders the
// repository names, in roster order: every assignment for the first team,
// then the second, and so on. The same input always yields the same ordered
// target list, so batch reports line up with the roster.
//
// Two targets resolving to the same repository name is a configuration
// error: dispatching both would make them overwrite each other.
func Resolve(teams []Team, assignments []string, template string) ([]Target, error) {
	if len(teams) == 0 {
		return nil, &ConfigError{Err: errEmptyRoster}
	}
	if len(assignments) == 0 {
		return nil, &ConfigError{Err: errNoAssignments}
	}

	cleaned := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		assignment = strings.TrimSpace(assignment)
		if assignment == "" {
			return nil, &ConfigError{Err: errEmptyAssignment}
		}
		cleaned = append(cleaned, assignment)
	}

	targets := make([]Target, 0, len(teams)*len(cleaned))
	byName := make(map[string]Target, len(teams)*len(cleaned))
	for _, team := range teams {
		for _, assignment := range cleaned {
			name, err := RepoName(template, team.Name, assignment)
			if err != nil {
				return nil, err
			}

			if prev, clash := byName[name]; clash {
				return nil, &ConfigError{Err: fmt.Errorf(
					"%w: %q comes from team %q assignment %q and team %q assignment %q",
					errRepoNameConflict, name, prev.Team.Name, prev.Assignment, team.Name, assignment)}
			}

			target := Target{Team: team, Assignment: assignment, RepoName: name}
			byName[name] = target
			targets = append(targets, target)
		}
	}
	return targets, nil
}
