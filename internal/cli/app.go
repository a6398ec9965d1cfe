// Package cli wires the flok commands: flag parsing, guards, user-facing
// reporting and the exit status contract. All repository logic lives in the
// engine; commands stay thin.
package cli

import (
	"context"

	"flok.dev/flok/internal/config"
	"flok.dev/flok/internal/engine"
	flokerrors "flok.dev/flok/internal/errors"
	"flok.dev/flok/internal/git"
	"flok.dev/flok/internal/output"
	"flok.dev/flok/internal/plan"
)

// App bundles everything a command needs for one invocation
type App struct {
	Run git.Runner
	Cmd *git.CommandRunner
	Cfg *config.Config
	Eng *engine.Engine
	Log *output.Splog
}

// newApp opens the repository containing the working directory, resolves the
// configuration and builds the engine. Failing to open a repository is the
// "not inside a work tree" guard.
func newApp() (*App, error) {
	run, err := git.NewRunner(".")
	if err != nil {
		return nil, err
	}
	root, err := run.RepoRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	log, err := output.NewSplogWithFile(output.LogFilePath())
	if err != nil {
		log = output.NewSplog()
	}

	return &App{
		Run: run,
		Cmd: git.NewCommandRunner(root),
		Cfg: cfg,
		Eng: engine.New(run, cfg, log),
		Log: log,
	}, nil
}

// Close releases the log file
func (a *App) Close() {
	_ = a.Log.Close()
}

// guardCleanWorkTree rejects mutation with uncommitted changes around
func (a *App) guardCleanWorkTree(ctx context.Context) error {
	clean, err := a.Run.IsWorkTreeClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		a.Log.Hint("commit or stash your changes first")
		return flokerrors.ErrDirtyWorkTree
	}
	return nil
}

// guardUndiverged rejects mutation while upstream has commits the local
// branch lacks; branches built from stale commits would fight the rebase.
func (a *App) guardUndiverged(ctx context.Context) error {
	diverged, err := a.Run.HaveDiverged(ctx, a.Cfg.Local, a.Cfg.UpstreamRef())
	if err != nil {
		return err
	}
	if diverged {
		a.Log.Hint("run `flok pull` to rebase onto upstream")
		return flokerrors.ErrDiverged
	}
	return nil
}

// guardNotOnManaged rejects running while HEAD is on a branch flok owns,
// since rewriting the checked-out branch would yank the work tree
func (a *App) guardNotOnManaged() error {
	current, err := a.Run.CurrentBranch()
	if err != nil {
		// Detached HEAD is fine; there is no branch to yank.
		return nil
	}
	if plan.ManagedNamePattern(a.Cfg.BranchTemplate).MatchString(current) {
		a.Log.Hint("run `flok checkout local` first")
		return flokerrors.ErrOnManagedBranch
	}
	return nil
}

// guardOnLocal requires HEAD to be on the configured local branch
func (a *App) guardOnLocal() error {
	current, err := a.Run.CurrentBranch()
	if err != nil || current != a.Cfg.Local {
		return flokerrors.ErrNotOnLocal
	}
	return nil
}

// guardRemote requires a configured remote
func (a *App) guardRemote() error {
	if a.Cfg.Remote == "" {
		return flokerrors.ErrNoRemote
	}
	return nil
}
