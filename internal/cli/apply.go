package cli

import (
	"context"

	"flok.dev/flok/internal/output"
	"flok.dev/flok/internal/plan"
)

// apply validates a plan, reconciles it against the repository and carries
// the actions out, reporting every branch that changed. Returns
// errChangesApplied when anything was mutated so the exit code reflects it.
func (a *App) apply(ctx context.Context, p *plan.Plan, prune bool) error {
	chains, err := a.Eng.Finish(p)
	if err != nil {
		return err
	}

	rec, err := a.Eng.Reconcile(ctx, p, chains, prune)
	if err != nil {
		return err
	}

	for _, name := range rec.Drift {
		a.Log.Warn("leaving %s alone: it is not in the plan and not integrated", name)
	}

	result, err := a.Eng.Apply(ctx, rec)
	if err != nil {
		return err
	}

	for _, name := range result.Created {
		a.Log.Info("created %s", output.BranchStyle(name))
	}
	for _, name := range result.Rewritten {
		a.Log.Info("rewrote %s", output.BranchStyle(name))
	}
	for _, name := range result.Deleted {
		a.Log.Info("deleted %s", output.BranchStyle(name))
	}

	if result.ChangedCount() == 0 {
		a.Log.Info("Everything up to date.")
		return nil
	}
	a.Log.Info("Delta branches updated. Run `flok push` to push them to a remote.")
	return errChangesApplied
}
