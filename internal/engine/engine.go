package engine

import (
	"context"
	"fmt"
	"strconv"

	"flok.dev/flok/internal/config"
	"flok.dev/flok/internal/git"
	"flok.dev/flok/internal/output"
	"flok.dev/flok/internal/plan"
)

// Engine drives the flok workflow against one repository
type Engine struct {
	run git.Runner
	cfg *config.Config
	log *output.Splog
}

// New creates an engine bound to a git backend and resolved configuration
func New(run git.Runner, cfg *config.Config, log *output.Splog) *Engine {
	return &Engine{run: run, cfg: cfg, log: log}
}

// Config returns the configuration the engine was created with
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Runner returns the git backend the engine was created with
func (e *Engine) Runner() git.Runner {
	return e.run
}

// LocalCommits returns the commits on the local branch that are not on
// upstream, oldest first. Duplicate subjects are rejected because subjects
// are the only stable identity across cherry-picks; two identical subjects
// would derive the same branch name and make reconstruction ambiguous.
func (e *Engine) LocalCommits(ctx context.Context) ([]plan.Commit, error) {
	upstream := e.cfg.UpstreamRef()
	if !e.run.ObjectExists(upstream) {
		return nil, fmt.Errorf("upstream %q does not exist", upstream)
	}
	if !e.run.ObjectExists(e.cfg.Local) {
		return nil, fmt.Errorf("local branch %q does not exist", e.cfg.Local)
	}

	commits, err := e.run.CommitsBetween(ctx, upstream, e.cfg.Local)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]plan.Commit, len(commits))
	for _, c := range commits {
		if prev, ok := seen[c.Subject]; ok {
			return nil, fmt.Errorf(
				"local commits %s and %s share the subject %q; reword one so their branches can be told apart",
				prev.ShortSHA(), c.ShortSHA(), c.Subject)
		}
		seen[c.Subject] = c
	}
	return commits, nil
}

// Finish validates a plan and derives its branch names, returning the
// dependency chains. A plan must be finished before it can be reconciled.
func (e *Engine) Finish(p *plan.Plan) ([]plan.Chain, error) {
	chains, err := plan.Validate(p)
	if err != nil {
		return nil, err
	}
	if err := plan.AssignBranchNames(p, e.cfg.Anchor, e.cfg.BranchTemplate, e.cfg.UpstreamRef()); err != nil {
		return nil, err
	}
	return chains, nil
}

// ManagedBranches returns the local branches whose names match the managed
// naming convention. The convention is the only persisted record of
// ownership; the local and upstream branches are never considered managed.
func (e *Engine) ManagedBranches() ([]string, error) {
	pattern := plan.ManagedNamePattern(e.cfg.BranchTemplate)
	branches, err := e.run.LocalBranches()
	if err != nil {
		return nil, err
	}

	var managed []string
	for _, b := range branches {
		if b == e.cfg.Local || b == e.cfg.Upstream {
			continue
		}
		if pattern.MatchString(b) {
			managed = append(managed, b)
		}
	}
	return managed, nil
}

// Reset deletes every managed branch and returns the deleted names
func (e *Engine) Reset(ctx context.Context) ([]string, error) {
	managed, err := e.ManagedBranches()
	if err != nil {
		return nil, err
	}

	current := ""
	if branch, err := e.run.CurrentBranch(); err == nil {
		current = branch
	}

	var deleted []string
	for _, name := range managed {
		if name == current {
			e.log.Warn("not deleting %s: it is checked out", name)
			continue
		}
		if err := e.run.DeleteBranch(ctx, name); err != nil {
			return deleted, err
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}

// BuildStack creates a plan with one delta per local commit, each depending
// on the previous one.
func BuildStack(local []plan.Commit) *plan.Plan {
	p := &plan.Plan{Local: local}
	for i, c := range local {
		dep := i - 1
		if i == 0 {
			dep = plan.Upstream
		}
		p.Deltas = append(p.Deltas, &plan.Delta{
			ID:      strconv.Itoa(i),
			Commits: []plan.Commit{c},
			Dep:     dep,
		})
	}
	return p
}

// BuildFlat creates a plan with one independent delta per local commit, all
// targeting upstream.
func BuildFlat(local []plan.Commit) *plan.Plan {
	p := &plan.Plan{Local: local}
	for i, c := range local {
		p.Deltas = append(p.Deltas, &plan.Delta{
			ID:      strconv.Itoa(i),
			Commits: []plan.Commit{c},
			Dep:     plan.Upstream,
		})
	}
	return p
}

// BuildEmpty creates a plan that skips every local commit
func BuildEmpty(local []plan.Commit) *plan.Plan {
	return &plan.Plan{Local: local}
}
