package cli

import (
	"context"

	"github.com/spf13/cobra"

	"flok.dev/flok/internal/output"
	"flok.dev/flok/internal/tui"
)

// newResetCmd creates the reset command
func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every flok-managed branch",
		Long: `Delete every flok-managed branch.

Your commits on the local branch are untouched; only the derived delta
branches are removed. Asks for confirmation unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			return app.runReset(cmd.Context(), yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")

	return cmd
}

func (a *App) runReset(ctx context.Context, yes bool) error {
	managed, err := a.Eng.ManagedBranches()
	if err != nil {
		return err
	}
	if len(managed) == 0 {
		a.Log.Info("No active branches found.")
		return nil
	}

	if !yes {
		a.Log.Info("This will delete the following branches:")
		for _, name := range managed {
			a.Log.Info("  %s", output.BranchStyle(name))
		}
		confirmed, err := tui.Confirm("Continue?", false)
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	deleted, err := a.Eng.Reset(ctx)
	if err != nil {
		return err
	}
	for _, name := range deleted {
		a.Log.Info("deleted %s", output.BranchStyle(name))
	}
	if len(deleted) > 0 {
		return errChangesApplied
	}
	return nil
}
