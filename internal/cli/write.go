package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// newWriteCmd creates the write command
func newWriteCmd() *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Update the delta branches from the last applied plan",
		Long: `Update the delta branches from the last applied plan.

Reconstructs the plan from your branches and rebuilds every branch whose
commits or base changed, without opening the editor. Typically run after
amending or rebasing commits on the local branch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			return app.runWrite(cmd.Context(), prune)
		},
	}

	cmd.Flags().BoolVarP(&prune, "prune", "p", false, "Also delete unplanned branches that are not integrated yet.")

	return cmd
}

func (a *App) runWrite(ctx context.Context, prune bool) error {
	if err := a.guardCleanWorkTree(ctx); err != nil {
		return err
	}
	if err := a.guardNotOnManaged(); err != nil {
		return err
	}
	if err := a.guardUndiverged(ctx); err != nil {
		return err
	}

	p, err := a.Eng.Reconstruct(ctx)
	if err != nil {
		return err
	}
	return a.apply(ctx, p, prune)
}
