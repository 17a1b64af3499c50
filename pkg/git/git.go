// Package git clones course repositories to the local filesystem using
// go-git. Authentication travels as an HTTP basic-auth header, so tokens
// never appear in clone URLs or in the on-disk remote configuration.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/sgaunet/bullets"
	"github.com/sgaunet/repoherd/internal/logger"
	"github.com/sgaunet/repoherd/internal/security"
)

// errTargetExists is returned when the clone destination already exists.
var errTargetExists = errors.New("clone target already exists")

// ErrTargetExists is the exported alias for callers checking with errors.Is.
var ErrTargetExists = errTargetExists

// Cloner clones repositories over HTTPS with token authentication.
type Cloner struct {
	username string
	token    security.SecureToken
	log      *bullets.Logger
}

// NewCloner creates a Cloner authenticating as username with the given
// token. The username depends on the platform convention, see
// platform.Kind.CloneUsername. An empty token clones anonymously, which
// only works for public repositories.
func NewCloner(username string, token security.SecureToken) *Cloner {
	return &Cloner{
		username: username,
		token:    token,
		log:      logger.NoLogger(),
	}
}

// SetLogger sets the logger used for clone progress messages.
func (c *Cloner) SetLogger(log *bullets.Logger) {
	c.log = log
}

// Clone clones url into dir. The destination must not exist yet; a failed
// clone removes whatever partial state was left behind so the next run can
// retry cleanly. Cloning an empty repository leaves an initialized
// repository with origin configured, matching what the git CLI does.
func (c *Cloner) Clone(ctx context.Context, url, dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%w: %s", errTargetExists, dir)
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o750); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Cloning %s into %s", url, dir))

	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:  url,
		Auth: c.auth(),
	})
	if err != nil {
		if errors.Is(err, transport.ErrEmptyRemoteRepository) {
			return c.initEmpty(url, dir)
		}
		c.removePartialClone(dir)
		return fmt.Errorf("failed to clone repository: %w", err)
	}

	return nil
}

// initEmpty initializes dir as an empty repository with origin pointing at
// url, ready for a later pull once the first push lands.
func (c *Cloner) initEmpty(url, dir string) error {
	c.log.Debug(fmt.Sprintf("Remote %s is empty, initializing %s without a fetch", url, dir))

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return fmt.Errorf("failed to initialize empty clone: %w", err)
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})
	if err != nil {
		c.removePartialClone(dir)
		return fmt.Errorf("failed to configure origin remote: %w", err)
	}

	return nil
}

func (c *Cloner) auth() transport.AuthMethod {
	if c.token.IsEmpty() {
		return nil
	}

	return &githttp.BasicAuth{
		Username: c.username,
		Password: c.token.Value(),
	}
}

func (c *Cloner) removePartialClone(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		c.log.Warn(fmt.Sprintf("Failed to remove partial clone %s: %v", dir, err))
	}
}
