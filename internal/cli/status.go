package cli

import (
	"context"

	"github.com/spf13/cobra"

	"flok.dev/flok/internal/engine"
	"flok.dev/flok/internal/output"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	var showTargets bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of every delta branch",
		Long: `Show the state of every delta branch.

Reports what the next write would do per delta (create, rewrite or nothing),
how each branch relates to its remote counterpart, and any managed branches
the plan no longer covers. Never modifies anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			return app.runStatus(cmd.Context(), showTargets)
		},
	}

	cmd.Flags().BoolVarP(&showTargets, "show-targets", "t", false, "Print the target of each branch.")

	return cmd
}

func (a *App) runStatus(ctx context.Context, showTargets bool) error {
	if current, err := a.Run.CurrentBranch(); err == nil && current == a.Cfg.Local {
		a.Log.Info("On local branch.")
	} else {
		a.Log.Info("NOT on local branch.")
	}

	diverged, err := a.Run.HaveDiverged(ctx, a.Cfg.Local, a.Cfg.UpstreamRef())
	if err != nil {
		return err
	}
	if diverged {
		a.Log.Warn("Local and upstream have diverged.")
	}

	p, err := a.Eng.Reconstruct(ctx)
	if err != nil {
		return err
	}
	chains, err := a.Eng.Finish(p)
	if err != nil {
		return err
	}
	rec, err := a.Eng.Reconcile(ctx, p, chains, false)
	if err != nil {
		return err
	}

	if !p.Empty() {
		a.Log.Newline()
		a.Log.Info("Deltas:")
		for _, action := range rec.Actions {
			d := action.Delta
			note := ""
			switch action.Kind {
			case engine.ActionCreate:
				note = " (to create)"
			case engine.ActionRewrite:
				note = " (to rewrite)"
			default:
				note = a.pushState(ctx, d.BranchName)
			}
			a.Log.Info("%4s: %s%s", "d"+d.ID, output.BranchStyle(d.BranchName), output.DimStyle(note))
			if showTargets {
				a.Log.Info("      @ %s", d.TargetName)
			}
		}
	}

	for _, name := range rec.Deletes {
		a.Log.Info("%s is integrated and goes away on the next write", output.BranchStyle(name))
	}
	for _, name := range rec.Drift {
		a.Log.Warn("%s is not in the plan and not integrated", name)
	}
	return nil
}

// pushState reports how a branch relates to its remote tracking branch
func (a *App) pushState(ctx context.Context, name string) string {
	tracking, err := a.Run.RemoteTrackingBranch(ctx, name)
	if err != nil || tracking == "" {
		return " (not pushed)"
	}
	localTip, err := a.Run.ResolveRevision(name)
	if err != nil {
		return ""
	}
	remoteTip, err := a.Run.ResolveRevision(tracking)
	if err != nil {
		return " (not pushed)"
	}
	if localTip != remoteTip {
		return " (stale on remote)"
	}
	return ""
}
