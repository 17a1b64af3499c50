package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/repoherd/internal/security"
	"github.com/sgaunet/repoherd/pkg/config"
	ghclient "github.com/sgaunet/repoherd/pkg/github"
	"github.com/sgaunet/repoherd/pkg/gitlab"
)

// Kind identifies a supported hosting platform.
type Kind string

// Supported platform kinds.
const (
	KindGitHub Kind = "github"
	KindGitLab Kind = "gitlab"
)

// errUnsupportedPlatform is returned when the configured platform is not supported.
var errUnsupportedPlatform = errors.New("unsupported platform")

// ParseKind converts a configured platform name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindGitHub:
		return KindGitHub, nil
	case KindGitLab:
		return KindGitLab, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedPlatform, s)
	}
}

// CloneUsername returns the username half of HTTPS basic auth for git clones
// on this platform. GitHub accepts any username alongside a token; GitLab
// requires "oauth2" for personal access tokens.
func (k Kind) CloneUsername() string {
	if k == KindGitLab {
		return "oauth2"
	}
	return "git"
}

// NewProvider creates the appropriate Provider implementation for the
// configured platform. The token comes in separately from the config because
// config files never store credentials.
//
//nolint:ireturn // Factory function must return interface to enable platform abstraction.
func NewProvider(kind Kind, cfg *config.Config, token security.SecureToken, logger *bullets.Logger) (Provider, error) {
	switch kind {
	case KindGitLab:
		client, err := gitlab.NewClient(token, cfg.Org, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitLab client: %w", err)
		}
		client.SetLogger(logger)
		return NewGitLabAdapter(client, logger), nil

	case KindGitHub:
		client, err := ghclient.NewClient(token, cfg.Org, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub client: %w", err)
		}
		client.SetLogger(logger)
		return NewGitHubAdapter(client, logger), nil

	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedPlatform, kind)
	}
}
