package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sgaunet/repoherd/pkg/config"
)

const (
	validConfigYAML = `platform: github
base_url: https://github.example.edu/api/v3
org: cs101-2026
user: teacher-bot
students_file: students.yml
template: "{team}-{assignment}"
workdir: /srv/grading
defaults:
  concurrency: 8
  attempts: 2
  base_backoff: 2s
  cooldown: 90s
  dispatch_delay: 250ms
  private: false
`

	minimalConfigYAML = `platform: gitlab
org: cs101/2026
`

	unknownPlatformYAML = `platform: bitbucket
org: cs101
`

	missingPlatformYAML = `org: cs101
`

	missingOrgYAML = `platform: github
`

	badBaseURLYAML = `platform: github
base_url: github.example.edu
org: cs101
`

	negativeConcurrencyYAML = `platform: github
org: cs101
defaults:
  concurrency: -1
`

	negativeAttemptsYAML = `platform: github
org: cs101
defaults:
  attempts: -3
`

	badDurationYAML = `platform: github
org: cs101
defaults:
  cooldown: ninety seconds
`

	malformedYAML = `platform: github
  org: [unclosed
`

	extraFieldsYAML = `platform: github
org: cs101
future_option: ignored
defaults:
  concurrency: 3
  another_future_option: also ignored
`

	anchorsYAML = `platform: &p github
org: cs101
user: *p
`

	commentsYAML = `# course configuration
platform: github # the backend
org: cs101
`
)

// setupTestConfig creates a temporary home directory with a config file.
// It uses t.TempDir() for automatic cleanup and t.Setenv() to redirect $HOME.
func setupTestConfig(t *testing.T, configContent string) string {
	t.Helper()

	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	configDir := filepath.Join(tmpHome, ".config", "repoherd")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config directory: %v", err)
	}

	configPath := filepath.Join(configDir, "config.yml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	return configPath
}

// TestLoad tests loading complete and minimal configuration files.
func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		setupTestConfig(t, validConfigYAML)

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Expected Load() to succeed, got error: %v", err)
		}

		if cfg.Platform != "github" {
			t.Errorf("Platform: expected 'github', got '%s'", cfg.Platform)
		}
		if cfg.BaseURL != "https://github.example.edu/api/v3" {
			t.Errorf("BaseURL: expected enterprise URL, got '%s'", cfg.BaseURL)
		}
		if cfg.Org != "cs101-2026" {
			t.Errorf("Org: expected 'cs101-2026', got '%s'", cfg.Org)
		}
		if cfg.User != "teacher-bot" {
			t.Errorf("User: expected 'teacher-bot', got '%s'", cfg.User)
		}
		if cfg.StudentsFile != "students.yml" {
			t.Errorf("StudentsFile: expected 'students.yml', got '%s'", cfg.StudentsFile)
		}
		if cfg.Template != "{team}-{assignment}" {
			t.Errorf("Template: expected naming template, got '%s'", cfg.Template)
		}
		if cfg.Workdir != "/srv/grading" {
			t.Errorf("Workdir: expected '/srv/grading', got '%s'", cfg.Workdir)
		}
		if cfg.Defaults.Concurrency != 8 {
			t.Errorf("Defaults.Concurrency: expected 8, got %d", cfg.Defaults.Concurrency)
		}
		if cfg.Defaults.Attempts != 2 {
			t.Errorf("Defaults.Attempts: expected 2, got %d", cfg.Defaults.Attempts)
		}
		if cfg.Defaults.BaseBackoff.Std() != 2*time.Second {
			t.Errorf("Defaults.BaseBackoff: expected 2s, got %v", cfg.Defaults.BaseBackoff.Std())
		}
		if cfg.Defaults.Cooldown.Std() != 90*time.Second {
			t.Errorf("Defaults.Cooldown: expected 90s, got %v", cfg.Defaults.Cooldown.Std())
		}
		if cfg.Defaults.DispatchDelay.Std() != 250*time.Millisecond {
			t.Errorf("Defaults.DispatchDelay: expected 250ms, got %v", cfg.Defaults.DispatchDelay.Std())
		}
		if cfg.Defaults.PrivateRepos() {
			t.Error("Defaults.PrivateRepos: expected false when set explicitly")
		}
	})

	t.Run("minimal config", func(t *testing.T) {
		setupTestConfig(t, minimalConfigYAML)

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Expected Load() to succeed, got error: %v", err)
		}

		if cfg.Platform != "gitlab" {
			t.Errorf("Platform: expected 'gitlab', got '%s'", cfg.Platform)
		}
		if cfg.Org != "cs101/2026" {
			t.Errorf("Org: expected subgroup path, got '%s'", cfg.Org)
		}
		if cfg.Defaults.Concurrency != 0 {
			t.Errorf("Defaults.Concurrency: expected 0 (use built-in default), got %d", cfg.Defaults.Concurrency)
		}
		if cfg.Defaults.Cooldown.Std() != 0 {
			t.Errorf("Defaults.Cooldown: expected 0 (use built-in default), got %v", cfg.Defaults.Cooldown.Std())
		}
		if !cfg.Defaults.PrivateRepos() {
			t.Error("Defaults.PrivateRepos: expected true when unset")
		}
	})
}

// TestLoadFrom tests loading from an explicit path.
func TestLoadFrom(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "course.yml")
	if err := os.WriteFile(configPath, []byte(minimalConfigYAML), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Expected LoadFrom() to succeed, got error: %v", err)
	}
	if cfg.Org != "cs101/2026" {
		t.Errorf("Org: expected 'cs101/2026', got '%s'", cfg.Org)
	}
}

// TestLoadFileNotFound tests the missing-file error.
func TestLoadFileNotFound(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	_, err := config.Load()
	if err == nil {
		t.Fatal("Expected error for missing config file, got nil")
	}
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got: %v", err)
	}
}

// TestLoadMalformedYAML tests that broken YAML is reported as a parse error.
func TestLoadMalformedYAML(t *testing.T) {
	setupTestConfig(t, malformedYAML)

	_, err := config.Load()
	if err == nil {
		t.Fatal("Expected error for malformed YAML, got nil")
	}
}

// TestLoadValidationFailures tests that invalid configs are rejected with
// the matching sentinel.
func TestLoadValidationFailures(t *testing.T) {
	tests := []struct {
		name       string
		configYAML string
		wantError  error
	}{
		{"unknown platform", unknownPlatformYAML, config.ErrPlatformUnknown},
		{"missing platform", missingPlatformYAML, config.ErrPlatformRequired},
		{"missing org", missingOrgYAML, config.ErrOrgRequired},
		{"base_url without scheme", badBaseURLYAML, config.ErrInvalidBaseURL},
		{"negative concurrency", negativeConcurrencyYAML, config.ErrNegativeConcurrency},
		{"negative attempts", negativeAttemptsYAML, config.ErrNegativeAttempts},
		{"unparsable duration", badDurationYAML, config.ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.configYAML)

			_, err := config.Load()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("Expected %v, got: %v", tt.wantError, err)
			}
		})
	}
}

// TestValidate tests validation directly on config values.
func TestValidate(t *testing.T) {
	t.Run("platform checked before org", func(t *testing.T) {
		cfg := &config.Config{}
		if err := cfg.Validate(); !errors.Is(err, config.ErrPlatformRequired) {
			t.Errorf("Expected ErrPlatformRequired first, got: %v", err)
		}
	})

	t.Run("platform is case-insensitive", func(t *testing.T) {
		cfg := &config.Config{Platform: "GitHub", Org: "cs101"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected mixed-case platform to validate, got: %v", err)
		}
	})

	t.Run("valid gitlab config", func(t *testing.T) {
		cfg := &config.Config{Platform: "gitlab", Org: "cs101", BaseURL: "https://gitlab.example.edu"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected valid config to pass, got: %v", err)
		}
	})
}

// TestLoadEdgeCases tests lenient parsing behavior.
func TestLoadEdgeCases(t *testing.T) {
	t.Run("extra fields are ignored", func(t *testing.T) {
		setupTestConfig(t, extraFieldsYAML)

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load should ignore extra fields, got error: %v", err)
		}
		if cfg.Defaults.Concurrency != 3 {
			t.Errorf("Expected concurrency 3, got %d", cfg.Defaults.Concurrency)
		}
	})

	t.Run("yaml anchors resolve", func(t *testing.T) {
		setupTestConfig(t, anchorsYAML)

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load should handle YAML anchors, got error: %v", err)
		}
		if cfg.User != "github" {
			t.Errorf("Expected anchored user value 'github', got '%s'", cfg.User)
		}
	})

	t.Run("comments are ignored", func(t *testing.T) {
		setupTestConfig(t, commentsYAML)

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load should handle comments, got error: %v", err)
		}
		if cfg.Org != "cs101" {
			t.Errorf("Expected org 'cs101', got '%s'", cfg.Org)
		}
	})
}

// TestPrivateRepos tests the private-repository default.
func TestPrivateRepos(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name    string
		private *bool
		want    bool
	}{
		{"unset defaults to private", nil, true},
		{"explicit true", boolPtr(true), true},
		{"explicit false", boolPtr(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := config.BatchDefaults{Private: tt.private}
			if got := d.PrivateRepos(); got != tt.want {
				t.Errorf("PrivateRepos() = %v, expected %v", got, tt.want)
			}
		})
	}
}

// TestDefaultPath tests the canonical config location.
func TestDefaultPath(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	path, err := config.DefaultPath()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := filepath.Join(tmpHome, ".config", "repoherd", "config.yml")
	if path != want {
		t.Errorf("Expected %q, got %q", want, path)
	}
}

// TestSaveRoundTrip tests that a saved config loads back unchanged.
func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yml")

	private := false
	original := &config.Config{
		Platform:     "gitlab",
		BaseURL:      "https://gitlab.example.edu",
		Org:          "cs101/2026",
		User:         "teacher-bot",
		StudentsFile: "students.yml",
		Template:     "{team}-{assignment}",
		Workdir:      "/srv/grading",
		Defaults: config.BatchDefaults{
			Concurrency: 8,
			Attempts:    2,
			Cooldown:    config.Duration(90 * time.Second),
			Private:     &private,
		},
	}

	if err := config.Save(original, configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() after Save() failed: %v", err)
	}

	if loaded.Platform != original.Platform {
		t.Errorf("Platform: expected %q, got %q", original.Platform, loaded.Platform)
	}
	if loaded.Org != original.Org {
		t.Errorf("Org: expected %q, got %q", original.Org, loaded.Org)
	}
	if loaded.Template != original.Template {
		t.Errorf("Template: expected %q, got %q", original.Template, loaded.Template)
	}
	if loaded.Defaults.Cooldown.Std() != 90*time.Second {
		t.Errorf("Cooldown: expected 90s, got %v", loaded.Defaults.Cooldown.Std())
	}
	if loaded.Defaults.PrivateRepos() {
		t.Error("PrivateRepos: expected false after round trip")
	}
}

// TestSaveOmitsUnsetFields tests that optional fields stay out of the file.
func TestSaveOmitsUnsetFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")

	minimal := &config.Config{
		Platform: "github",
		Org:      "cs101-2026",
	}

	if err := config.Save(minimal, configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}

	content := string(data)
	for _, field := range []string{"base_url", "students_file", "workdir", "concurrency", "cooldown"} {
		if strings.Contains(content, field) {
			t.Errorf("Saved config should omit unset field %q:\n%s", field, content)
		}
	}
}

// TestSaveRejectsInvalidConfig tests that Save validates before writing.
func TestSaveRejectsInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")

	invalid := &config.Config{Platform: "github"} // org missing

	err := config.Save(invalid, configPath)
	if !errors.Is(err, config.ErrOrgRequired) {
		t.Errorf("Expected ErrOrgRequired, got: %v", err)
	}

	if _, statErr := os.Stat(configPath); !os.IsNotExist(statErr) {
		t.Error("Invalid config should not be written to disk")
	}
}
