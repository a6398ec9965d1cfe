// Package testhelpers builds throwaway git repositories for tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRepo is a real git repository in a test directory
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new repository with a "main" branch and a test
// user configured. GIT_CONFIG_GLOBAL is disabled so the host's git
// configuration cannot leak into tests.
func NewGitRepo(dir string) (*GitRepo, error) {
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	repo := &GitRepo{Dir: dir}
	if err := repo.Git("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.Git("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	return repo, nil
}

// Git executes a git command in the repository directory
func (r *GitRepo) Git(args ...string) error {
	_, err := r.GitOutput(args...)
	return err
}

// GitOutput executes a git command and returns its trimmed output
func (r *GitRepo) GitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output)), nil
}

// CommitFile writes content to a file and commits it with the given message
func (r *GitRepo) CommitFile(name, content, message string) error {
	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := r.Git("add", name); err != nil {
		return err
	}
	return r.Git("commit", "-m", message)
}

// AmendFile rewrites a file and amends the last commit without changing its
// message
func (r *GitRepo) AmendFile(name, content string) error {
	path := filepath.Join(r.Dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := r.Git("add", name); err != nil {
		return err
	}
	return r.Git("commit", "--amend", "--no-edit")
}

// CurrentBranch returns the checked-out branch name
func (r *GitRepo) CurrentBranch() (string, error) {
	return r.GitOutput("branch", "--show-current")
}

// Revision resolves a revision to a full SHA
func (r *GitRepo) Revision(rev string) (string, error) {
	return r.GitOutput("rev-parse", "--verify", rev+"^{commit}")
}

// BranchExists reports whether a local branch exists
func (r *GitRepo) BranchExists(name string) bool {
	_, err := r.GitOutput("rev-parse", "--verify", "refs/heads/"+name)
	return err == nil
}

// CherryPickInProgress reports whether a cherry-pick is stopped on a conflict
func (r *GitRepo) CherryPickInProgress() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git", "CHERRY_PICK_HEAD"))
	return err == nil
}
