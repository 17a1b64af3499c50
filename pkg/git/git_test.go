package git_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sgaunet/repoherd/internal/security"
	"github.com/sgaunet/repoherd/pkg/git"
)

// requireUploadPack skips tests that fetch over the file protocol, which
// go-git delegates to the git-upload-pack binary.
func requireUploadPack(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not found in PATH")
	}
}

// initSourceRepo creates a repository with a single commit to clone from.
func initSourceRepo(t *testing.T, path string) {
	t.Helper()

	repo, err := gogit.PlainInit(path, false)
	if err != nil {
		t.Fatalf("Failed to initialize source repository: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	readme := filepath.Join(path, "README.md")
	if err := os.WriteFile(readme, []byte("# assignment\n"), 0644); err != nil {
		t.Fatalf("Failed to write README: %v", err)
	}

	if _, err := worktree.Add("README.md"); err != nil {
		t.Fatalf("Failed to stage README: %v", err)
	}

	_, err = worktree.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Teacher",
			Email: "teacher@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}

// TestClone_LocalRepository tests cloning into a nested destination that does
// not exist yet.
func TestClone_LocalRepository(t *testing.T) {
	requireUploadPack(t)

	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	initSourceRepo(t, src)

	dest := filepath.Join(tmpDir, "work", "team-alpha", "team-alpha-task-1")
	cloner := git.NewCloner("git", security.NewSecureToken(""))

	if err := cloner.Clone(context.Background(), src, dest); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dest, ".git")); err != nil {
		t.Errorf("Expected .git directory in clone: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dest, "README.md"))
	if err != nil {
		t.Fatalf("Expected README.md in clone: %v", err)
	}
	if string(content) != "# assignment\n" {
		t.Errorf("Unexpected README content: %q", string(content))
	}
}

// TestClone_EmptyRemote tests that cloning a repository nobody pushed to yet
// leaves an initialized repository with origin configured.
func TestClone_EmptyRemote(t *testing.T) {
	requireUploadPack(t)

	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	if _, err := gogit.PlainInit(src, false); err != nil {
		t.Fatalf("Failed to initialize empty source repository: %v", err)
	}

	dest := filepath.Join(tmpDir, "work", "team-beta", "team-beta-task-1")
	cloner := git.NewCloner("git", security.NewSecureToken(""))

	if err := cloner.Clone(context.Background(), src, dest); err != nil {
		t.Fatalf("Clone of empty repository failed: %v", err)
	}

	repo, err := gogit.PlainOpen(dest)
	if err != nil {
		t.Fatalf("Expected initialized repository at destination: %v", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		t.Fatalf("Expected origin remote to be configured: %v", err)
	}

	urls := remote.Config().URLs
	if len(urls) != 1 || urls[0] != src {
		t.Errorf("Unexpected origin URLs: %v", urls)
	}
}

// TestClone_ExistingTarget tests that an existing destination is refused
// before anything touches the remote.
func TestClone_ExistingTarget(t *testing.T) {
	tmpDir := t.TempDir()
	dest := filepath.Join(tmpDir, "work", "team-alpha", "team-alpha-task-1")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatalf("Failed to create destination: %v", err)
	}

	cloner := git.NewCloner("git", security.NewSecureToken(""))

	err := cloner.Clone(context.Background(), filepath.Join(tmpDir, "src"), dest)
	if !errors.Is(err, git.ErrTargetExists) {
		t.Errorf("Expected ErrTargetExists, got: %v", err)
	}
}

// TestClone_MissingSourceCleansUp tests that a failed clone does not leave a
// partial destination directory behind.
func TestClone_MissingSourceCleansUp(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "does-not-exist")
	dest := filepath.Join(tmpDir, "work", "team-alpha", "team-alpha-task-1")

	cloner := git.NewCloner("git", security.NewSecureToken(""))

	err := cloner.Clone(context.Background(), src, dest)
	if err == nil {
		t.Fatal("Expected clone from missing source to fail")
	}

	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("Expected partial clone to be removed, stat returned: %v", statErr)
	}
}
