// Package roster loads student rosters and resolves them into the
// per-repository targets a batch run operates on.
//
// Two file formats are supported. A YAML mapping groups students into teams:
//
//	soggy-bottom-boys:
//	  members: [everett, pete, delmar]
//	alice:
//	  members: [alice]
//
// A plain text file lists one username per line; each becomes a team of one.
// Team order follows file order, so batch reports read like the roster.
package roster

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// teamSpec is the YAML shape of one team entry.
type teamSpec struct {
	Members []string `yaml:"members"`
}

// Load reads a students file. Files ending in .yml or .yaml are parsed as
// team mappings, anything else as one username per line.
func Load(path string) ([]Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read students file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return parseYAML(data)
	default:
		return parsePlain(data)
	}
}

// parseYAML decodes the team mapping format. It walks the yaml document
// nodes instead of unmarshalling into a map so the teams keep their file
// order.
func parseYAML(data []byte) ([]Team, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("invalid students file: %w", err)}
	}
	if len(doc.Content) == 0 {
		return nil, &ConfigError{Err: errEmptyRoster}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Err: errNotMapping}
	}

	teams := make([]Team, 0, len(root.Content)/2)
	seen := make(map[string]struct{}, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		name := strings.TrimSpace(key.Value)
		if name == "" {
			return nil, &ConfigError{Err: fmt.Errorf("%w (line %d)", errTeamWithoutName, key.Line)}
		}
		if _, dup := seen[name]; dup {
			return nil, &ConfigError{Err: fmt.Errorf("%w: %q", errDuplicateTeam, name)}
		}
		seen[name] = struct{}{}

		var spec teamSpec
		if err := value.Decode(&spec); err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("invalid team %q: %w", name, err)}
		}

		team := NewTeam(name, spec.Members)
		if len(team.Members) == 0 {
			return nil, &ConfigError{Err: fmt.Errorf("%w: %q", errTeamNoMembers, name)}
		}
		teams = append(teams, team)
	}

	if len(teams) == 0 {
		return nil, &ConfigError{Err: errEmptyRoster}
	}
	return teams, nil
}

// parsePlain decodes the one-username-per-line format. Blank lines and lines
// starting with # are skipped; repeated usernames count once.
func parsePlain(data []byte) ([]Team, error) {
	teams := make([]Team, 0)
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		username := strings.TrimSpace(scanner.Text())
		if username == "" || strings.HasPrefix(username, "#") {
			continue
		}
		if _, dup := seen[username]; dup {
			continue
		}
		seen[username] = struct{}{}
		teams = append(teams, NewTeam("", []string{username}))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read students file: %w", err)
	}

	if len(teams) == 0 {
		return nil, &ConfigError{Err: errEmptyRoster}
	}
	return teams, nil
}
