package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"flok.dev/flok/internal/engine"
	"flok.dev/flok/internal/plan"
	"flok.dev/flok/internal/tui"
)

// newPlanCmd creates the plan command
func newPlanCmd() *cobra.Command {
	var (
		edit  bool
		prune bool
		show  bool
	)

	cmd := &cobra.Command{
		Use:   "plan [detect|stack|flat|empty]",
		Short: "Edit the integration plan and update the delta branches",
		Long: `Edit the integration plan and update the delta branches.

The optional argument selects the starting plan:

  detect (default): reconstruct the last applied plan from your branches
  stack:            one delta per commit, each depending on the previous one
  flat:             one independent delta per commit
  empty:            skip every commit

The detect strategy (and any strategy with --edit) opens the plan in your
editor. Emptying the buffer aborts without touching anything.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			strategy := "detect"
			if len(args) > 0 {
				strategy = args[0]
			}
			return app.runPlan(cmd.Context(), strategy, edit, show, prune)
		},
	}

	// Add flags
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Always edit the plan before executing it.")
	cmd.Flags().BoolVarP(&show, "show", "s", false, "Only show the plan without executing it.")
	cmd.Flags().BoolVarP(&prune, "prune", "p", false, "Also delete unplanned branches that are not integrated yet.")

	return cmd
}

func (a *App) runPlan(ctx context.Context, strategy string, edit, show, prune bool) error {
	if !show {
		if err := a.guardCleanWorkTree(ctx); err != nil {
			return err
		}
		if err := a.guardNotOnManaged(); err != nil {
			return err
		}
		if err := a.guardUndiverged(ctx); err != nil {
			return err
		}
	}

	local, err := a.Eng.LocalCommits(ctx)
	if err != nil {
		return err
	}

	var p *plan.Plan
	switch strategy {
	case "detect":
		p, err = a.Eng.Reconstruct(ctx)
		if err != nil {
			return err
		}
	case "stack":
		p = engine.BuildStack(local)
	case "flat":
		p = engine.BuildFlat(local)
	case "empty":
		p = engine.BuildEmpty(local)
	default:
		return fmt.Errorf("unknown strategy %q (want detect, stack, flat or empty)", strategy)
	}

	text := plan.Serialize(p)
	if show {
		a.Log.Page(text)
		return nil
	}

	if edit || strategy == "detect" {
		edited, err := tui.OpenEditor(text+plan.Instructions, "flok-plan-*", a.Cfg.Editor)
		if err != nil {
			return err
		}
		if strings.TrimSpace(plan.StripComments(edited)) == "" {
			a.Log.Info("Aborting.")
			return nil
		}
		p, err = plan.Parse(edited, local)
		if err != nil {
			return err
		}
	}

	a.Log.Page(plan.Serialize(p))
	a.Log.Newline()
	return a.apply(ctx, p, prune)
}
