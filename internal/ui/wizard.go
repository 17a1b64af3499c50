// Package ui holds the interactive parts of the CLI: the configuration
// wizard and the live progress display for batch runs.
package ui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/sgaunet/repoherd/pkg/config"
	"github.com/sgaunet/repoherd/pkg/roster"
)

// ConfigWizard walks the operator through the settings a course needs and
// returns a validated configuration. Values from existing pre-fill the
// prompts, so re-running the wizard edits a config instead of starting over.
// Batch tuning (concurrency, retries, cooldown) is deliberately not prompted;
// those fields are edited in the config file directly.
func ConfigWizard(existing *config.Config) (*config.Config, error) {
	cfg := &config.Config{}
	if existing != nil {
		*cfg = *existing
	}

	platform := cfg.Platform
	if platform != config.PlatformGitLab {
		platform = config.PlatformGitHub
	}
	if err := survey.AskOne(&survey.Select{
		Message: "Platform:",
		Options: []string{config.PlatformGitHub, config.PlatformGitLab},
		Default: platform,
	}, &cfg.Platform); err != nil {
		return nil, fmt.Errorf("failed to get platform selection: %w", err)
	}

	if err := survey.AskOne(&survey.Input{
		Message: "API base URL (leave empty for the public instance):",
		Default: cfg.BaseURL,
	}, &cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("failed to get base URL: %w", err)
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Course organization or group:",
		Default: cfg.Org,
	}, &cfg.Org, survey.WithValidator(survey.Required)); err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Your username (granted access to every repository):",
		Default: cfg.User,
	}, &cfg.User); err != nil {
		return nil, fmt.Errorf("failed to get username: %w", err)
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Students file (leave empty to pass one per run):",
		Default: cfg.StudentsFile,
	}, &cfg.StudentsFile); err != nil {
		return nil, fmt.Errorf("failed to get students file: %w", err)
	}

	template := cfg.Template
	if template == "" {
		template = roster.DefaultNameTemplate
	}
	if err := survey.AskOne(&survey.Input{
		Message: "Repository name template:",
		Default: template,
	}, &cfg.Template); err != nil {
		return nil, fmt.Errorf("failed to get name template: %w", err)
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Working directory for clones:",
		Default: cfg.Workdir,
	}, &cfg.Workdir); err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	private := cfg.Defaults.PrivateRepos()
	if err := survey.AskOne(&survey.Confirm{
		Message: "Create repositories as private?",
		Default: private,
	}, &private); err != nil {
		return nil, fmt.Errorf("failed to get visibility choice: %w", err)
	}
	cfg.Defaults.Private = &private

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
