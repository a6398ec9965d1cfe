package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	flokerrors "flok.dev/flok/internal/errors"
	"flok.dev/flok/internal/plan"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner handles execution of git commands in a working directory
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// Run executes a git command and returns its trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, "", true, args...)
}

// RunWithInput executes a git command with the given stdin
func (r *CommandRunner) RunWithInput(ctx context.Context, input string, args ...string) (string, error) {
	return r.runInternal(ctx, input, true, args...)
}

// RunLines executes a git command and returns its output as lines
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// runInternal is the internal implementation that handles input and trimming
func (r *CommandRunner) runInternal(ctx context.Context, input string, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", flokerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", flokerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

// RunInteractive executes a git command with stdin/stdout/stderr connected
// to the terminal.
func (r *CommandRunner) RunInteractive(args ...string) error {
	cmd := exec.Command("git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// Runner defines the git operations the engine and CLI depend on. It allows
// the engine to be used with both the real backend and an in-memory fake.
type Runner interface {
	// Repository state
	RepoRoot() (string, error)
	CurrentBranch() (string, error)
	LocalBranches() ([]string, error)
	BranchExists(name string) bool
	ObjectExists(rev string) bool
	ResolveRevision(rev string) (string, error)
	Head() (string, error)
	IsWorkTreeClean(ctx context.Context) (bool, error)

	// History
	CommitsBetween(ctx context.Context, base, tip string) ([]plan.Commit, error)
	LastCommits(ctx context.Context, rev string, n int) ([]plan.Commit, error)
	IsAncestor(ancestor, descendant string) (bool, error)
	HaveDiverged(ctx context.Context, local, upstream string) (bool, error)
	PatchID(ctx context.Context, rev string) (string, error)
	RemoteTrackingBranch(ctx context.Context, branch string) (string, error)

	// Mutations
	CheckoutBranch(ctx context.Context, name string) error
	CheckoutDetached(ctx context.Context, rev string) error
	ForceBranch(name, rev string) error
	DeleteBranch(ctx context.Context, name string) error
	CherryPick(ctx context.Context, shas ...string) error
	CherryPickAbort(ctx context.Context) error
	CherryPickHead() (string, error)
	Push(ctx context.Context, remote, refspec string, options []string) (string, error)
}

// NewRunner returns the standard Runner for the repository containing dir,
// combining go-git reads with shelled-out mutations.
func NewRunner(dir string) (Runner, error) {
	repo, err := OpenRepository(dir)
	if err != nil {
		return nil, err
	}
	return &realRunner{
		repo: repo,
		cmd:  NewCommandRunner(repo.Root()),
	}, nil
}

// realRunner implements Runner against an actual repository
type realRunner struct {
	repo *Repository
	cmd  *CommandRunner
}

func (r *realRunner) RepoRoot() (string, error) {
	return r.repo.Root(), nil
}

func (r *realRunner) CurrentBranch() (string, error) {
	return r.repo.CurrentBranch()
}

func (r *realRunner) LocalBranches() ([]string, error) {
	return r.repo.BranchNames()
}

func (r *realRunner) BranchExists(name string) bool {
	return r.repo.BranchExists(name)
}

func (r *realRunner) ObjectExists(rev string) bool {
	_, err := r.cmd.Run(context.Background(), "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	return err == nil
}

func (r *realRunner) ResolveRevision(rev string) (string, error) {
	return r.cmd.Run(context.Background(), "rev-parse", "--verify", rev+"^{commit}")
}

func (r *realRunner) Head() (string, error) {
	return r.ResolveRevision("HEAD")
}

func (r *realRunner) IsWorkTreeClean(ctx context.Context) (bool, error) {
	output, err := r.cmd.Run(ctx, "status", "--untracked-files=no", "--porcelain")
	if err != nil {
		return false, err
	}
	return output == "", nil
}

func (r *realRunner) CommitsBetween(ctx context.Context, base, tip string) ([]plan.Commit, error) {
	lines, err := r.cmd.RunLines(ctx, "rev-list", "--no-merges", "--pretty=oneline", base+".."+tip, "--")
	if err != nil {
		return nil, err
	}
	return parseOnelines(lines)
}

func (r *realRunner) LastCommits(ctx context.Context, rev string, n int) ([]plan.Commit, error) {
	lines, err := r.cmd.RunLines(ctx, "rev-list", "--no-merges", "--pretty=oneline",
		"--max-count", strconv.Itoa(n), rev, "--")
	if err != nil {
		return nil, err
	}
	return parseOnelines(lines)
}

func (r *realRunner) IsAncestor(ancestor, descendant string) (bool, error) {
	return r.repo.IsAncestor(ancestor, descendant)
}

func (r *realRunner) HaveDiverged(ctx context.Context, local, upstream string) (bool, error) {
	count, err := r.cmd.Run(ctx, "rev-list", "--count", local+".."+upstream)
	if err != nil {
		return false, err
	}
	return count != "0", nil
}

func (r *realRunner) PatchID(ctx context.Context, rev string) (string, error) {
	diff, err := r.cmd.runInternal(ctx, "", false, "diff-tree", "--patch", rev)
	if err != nil {
		return "", err
	}
	output, err := r.cmd.RunWithInput(ctx, diff, "patch-id", "--stable")
	if err != nil {
		return "", err
	}
	// Output is "<patch-id> <commit>"; an empty diff yields no output.
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

func (r *realRunner) RemoteTrackingBranch(ctx context.Context, branch string) (string, error) {
	return r.cmd.Run(ctx, "for-each-ref", "--format=%(upstream:short)", "refs/heads/"+branch)
}

func (r *realRunner) CheckoutBranch(ctx context.Context, name string) error {
	_, err := r.cmd.Run(ctx, "checkout", name)
	return err
}

func (r *realRunner) CheckoutDetached(ctx context.Context, rev string) error {
	_, err := r.cmd.Run(ctx, "checkout", "--detach", rev)
	return err
}

func (r *realRunner) ForceBranch(name, rev string) error {
	_, err := r.cmd.Run(context.Background(), "branch", "--force", name, rev)
	return err
}

func (r *realRunner) DeleteBranch(ctx context.Context, name string) error {
	_, err := r.cmd.Run(ctx, "branch", "-D", name)
	return err
}

func (r *realRunner) CherryPick(ctx context.Context, shas ...string) error {
	args := append([]string{"cherry-pick"}, shas...)
	_, err := r.cmd.Run(ctx, args...)
	return err
}

func (r *realRunner) CherryPickAbort(ctx context.Context) error {
	_, err := r.cmd.Run(ctx, "cherry-pick", "--abort")
	return err
}

func (r *realRunner) CherryPickHead() (string, error) {
	return r.cmd.Run(context.Background(), "rev-parse", "--verify", "--quiet", "CHERRY_PICK_HEAD")
}

func (r *realRunner) Push(ctx context.Context, remote, refspec string, options []string) (string, error) {
	args := []string{"push", "--force", "--set-upstream", remote, refspec}
	for _, opt := range options {
		args = append(args, "--push-option", opt)
	}
	return r.cmd.Run(ctx, args...)
}
