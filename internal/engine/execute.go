package engine

import (
	"context"

	flokerrors "flok.dev/flok/internal/errors"
	"flok.dev/flok/internal/plan"
)

// Apply carries out a reconciliation. Branches are rebuilt in canonical
// order by cherry-picking onto a detached HEAD, so a dependency's fresh tip
// is always in place before its dependents build on it. After every branch
// succeeds the orphaned branches are deleted and HEAD is restored.
//
// A cherry-pick conflict aborts the run and leaves the work tree in git's
// native conflict state: branches built so far keep their new tips, the
// conflicted branch keeps its old one, and the returned RunResult records
// where the run stopped. Re-running after a resolution converges because
// finished branches reconcile to noops.
func (e *Engine) Apply(ctx context.Context, rec *Reconciliation) (*RunResult, error) {
	result := &RunResult{State: RunCompleted}
	if !rec.Changed() {
		return result, nil
	}

	// Tips observed or produced during this run, by delta index. A dependent
	// delta must base itself on the tip its dependency has after rebuilding,
	// not the tip recorded before the run started.
	tips := make(map[int]string, len(rec.Plan.Deltas))

	startBranch := ""
	if current, err := e.run.CurrentBranch(); err == nil {
		startBranch = current
	}
	moved := false

	for i, action := range rec.Actions {
		d := action.Delta

		if action.Kind == ActionNoop {
			tip, err := e.run.ResolveRevision(d.BranchName)
			if err != nil {
				return result, err
			}
			tips[i] = tip
			continue
		}

		base, err := e.baseTip(rec.Plan, d, tips)
		if err != nil {
			return result, err
		}
		if err := e.run.CheckoutDetached(ctx, base); err != nil {
			return result, err
		}
		moved = true

		e.log.Debug("building %s on %s", d.BranchName, base)
		if err := e.run.CherryPick(ctx, d.CommitSHAs()...); err != nil {
			e.log.Debug("cherry-pick failed: %v", err)
			result.State = RunAborted
			result.AbortedAt = d.BranchName
			return result, e.conflictError(d)
		}

		tip, err := e.run.Head()
		if err != nil {
			return result, err
		}
		if err := e.run.ForceBranch(d.BranchName, tip); err != nil {
			return result, err
		}
		tips[i] = tip

		switch action.Kind {
		case ActionCreate:
			result.Created = append(result.Created, d.BranchName)
		case ActionRewrite:
			result.Rewritten = append(result.Rewritten, d.BranchName)
		}
	}

	if moved && startBranch != "" {
		if err := e.run.CheckoutBranch(ctx, startBranch); err != nil {
			return result, err
		}
	}

	for _, name := range rec.Deletes {
		if name == startBranch {
			continue
		}
		if err := e.run.DeleteBranch(ctx, name); err != nil {
			return result, err
		}
		result.Deleted = append(result.Deleted, name)
	}

	return result, nil
}

// baseTip returns the commit a delta's branch is rebuilt from: the upstream
// tip, or the dependency's tip as of this run.
func (e *Engine) baseTip(p *plan.Plan, d *plan.Delta, tips map[int]string) (string, error) {
	if d.Dep == plan.Upstream {
		return e.run.ResolveRevision(e.cfg.UpstreamRef())
	}
	if tip, ok := tips[d.Dep]; ok {
		return tip, nil
	}
	return e.run.ResolveRevision(p.Deltas[d.Dep].BranchName)
}

func (e *Engine) conflictError(d *plan.Delta) error {
	sha := ""
	if head, err := e.run.CherryPickHead(); err == nil {
		sha = plan.Commit{SHA: head}.ShortSHA()
	}
	return &flokerrors.CherryPickConflictError{
		BranchName: d.BranchName,
		CommitSHA:  sha,
		Hints: []string{
			"resolve the conflicts and run `git cherry-pick --continue`, then rerun `flok write` to finish the remaining branches",
			"or run `git cherry-pick --abort` and `git checkout " + e.cfg.Local + "` to step back",
		},
	}
}
