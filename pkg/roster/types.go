package roster

import (
	"sort"
	"strings"
)

// Team represents a group of students that shares one repository per
// assignment. Solo students are teams of one.
type Team struct {
	// Name identifies the team and prefixes its repository names.
	// Defaults to the sorted members joined with "-" when not set.
	Name string
	// Members are the platform usernames belonging to the team.
	Members []string
}

// NewTeam builds a Team from a name and its raw member list. Members are
// trimmed, empties dropped, and duplicates removed while preserving order.
// An empty name falls back to the sorted members joined with "-", so the
// same member set always produces the same team name.
func NewTeam(name string, members []string) Team {
	cleaned := make([]string, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, member := range members {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		if _, dup := seen[member]; dup {
			continue
		}
		seen[member] = struct{}{}
		cleaned = append(cleaned, member)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		sorted := make([]string, len(cleaned))
		copy(sorted, cleaned)
		sort.Strings(sorted)
		name = strings.Join(sorted, "-")
	}

	return Team{Name: name, Members: cleaned}
}

// Target is one unit of batch work: a team crossed with an assignment,
// resolved to the repository name the operation acts on.
type Target struct {
	Team       Team
	Assignment string
	RepoName   string
}

// String returns the repository name, which uniquely identifies the target
// within a batch.
func (t Target) String() string {
	return t.RepoName
}
