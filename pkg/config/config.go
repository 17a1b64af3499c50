// Package config handles loading and validation of user configuration.
//
// The configuration file lives at ~/.config/repoherd/config.yml and holds
// the platform selection, the course organization and the batch tunables.
// Credentials are never read from the file; tokens come from the
// environment at the CLI layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Platform names accepted in the config file.
const (
	PlatformGitHub = "github"
	PlatformGitLab = "gitlab"
)

var (
	errConfigNotFound      = errors.New("config file not found")
	errPlatformRequired    = errors.New("platform is not set")
	errPlatformUnknown     = errors.New("platform must be github or gitlab")
	errOrgRequired         = errors.New("org is not set")
	errInvalidBaseURL      = errors.New("base_url must start with http:// or https://")
	errNegativeConcurrency = errors.New("defaults.concurrency cannot be negative")
	errNegativeAttempts    = errors.New("defaults.attempts cannot be negative")
	errInvalidDuration     = errors.New("invalid duration")
)

// Exported aliases for error checking by callers.
var (
	ErrConfigNotFound      = errConfigNotFound
	ErrPlatformRequired    = errPlatformRequired
	ErrPlatformUnknown     = errPlatformUnknown
	ErrOrgRequired         = errOrgRequired
	ErrInvalidBaseURL      = errInvalidBaseURL
	ErrNegativeConcurrency = errNegativeConcurrency
	ErrNegativeAttempts    = errNegativeAttempts
	ErrInvalidDuration     = errInvalidDuration
)

// Config represents the complete configuration for repoherd.
type Config struct {
	// Platform selects the backend: "github" or "gitlab".
	Platform string `yaml:"platform"`
	// BaseURL points to a self-hosted instance API root. Empty means the
	// public github.com / gitlab.com.
	BaseURL string `yaml:"base_url,omitempty"`
	// Org is the course organization (GitHub) or group path (GitLab).
	Org string `yaml:"org"`
	// User is the operator account, checked by the verify command.
	User string `yaml:"user,omitempty"`
	// StudentsFile is the default roster path; the CLI flag overrides it.
	StudentsFile string `yaml:"students_file,omitempty"`
	// Template overrides the repository naming template.
	Template string `yaml:"template,omitempty"`
	// Workdir is where clone places repositories. Empty means the
	// current directory.
	Workdir string `yaml:"workdir,omitempty"`
	// Defaults tunes batch execution.
	Defaults BatchDefaults `yaml:"defaults,omitempty"`
}

// BatchDefaults carries batch tunables. Zero values mean "use the built-in
// default" so a minimal config file stays minimal.
type BatchDefaults struct {
	Concurrency   int      `yaml:"concurrency,omitempty"`
	Attempts      int      `yaml:"attempts,omitempty"`
	BaseBackoff   Duration `yaml:"base_backoff,omitempty"`
	Cooldown      Duration `yaml:"cooldown,omitempty"`
	DispatchDelay Duration `yaml:"dispatch_delay,omitempty"`
	Private       *bool    `yaml:"private,omitempty"`
}

// PrivateRepos reports whether created repositories should be private.
// Unset means private: student work is not published by accident.
func (d BatchDefaults) PrivateRepos() bool {
	if d.Private == nil {
		return true
	}
	return *d.Private
}

// Duration wraps time.Duration so the config file can use "30s"-style
// values.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %s", errInvalidDuration, value.Value)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", errInvalidDuration, raw)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler, rendering the duration in the same
// "30s" form the file accepts.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultPath returns the canonical config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "repoherd", "config.yml"), nil
}

// Load reads and parses the configuration file from the user's home directory.
func Load() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads and parses the configuration file at the given path.
func LoadFrom(configPath string) (*Config, error) {
	// #nosec G304 - Reading config from a user-chosen path is intentional
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errConfigNotFound, configPath)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save validates cfg and writes it to path as YAML, creating parent
// directories as needed. The config wizard is the main caller.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Platform) {
	case "":
		return errPlatformRequired
	case PlatformGitHub, PlatformGitLab:
	default:
		return fmt.Errorf("%w: %q", errPlatformUnknown, c.Platform)
	}

	if c.Org == "" {
		return errOrgRequired
	}

	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("%w: %q", errInvalidBaseURL, c.BaseURL)
	}

	if c.Defaults.Concurrency < 0 {
		return errNegativeConcurrency
	}
	if c.Defaults.Attempts < 0 {
		return errNegativeAttempts
	}

	return nil
}
