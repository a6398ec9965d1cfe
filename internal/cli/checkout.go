package cli

import (
	"context"

	"github.com/spf13/cobra"

	"flok.dev/flok/internal/output"
	"flok.dev/flok/internal/tui"
)

// newCheckoutCmd creates the checkout command
func newCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkout [ref]",
		Aliases: []string{"co"},
		Short:   "Switch to a delta branch or back to the local branch",
		Long: `Switch to a delta branch or back to the local branch.

If REF is "local" or the name of your local branch, checks out the local
branch. A number (optionally prefixed with "d") selects the delta with that
index; anything else is matched as a substring against the delta branch
names and must be unique. With no argument, opens an interactive selector.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			return app.runCheckout(cmd.Context(), ref)
		},
	}

	return cmd
}

func (a *App) runCheckout(ctx context.Context, ref string) error {
	branch := ""
	switch {
	case ref == "local" || ref == a.Cfg.Local:
		branch = a.Cfg.Local
	default:
		p, err := a.Eng.Reconstruct(ctx)
		if err != nil {
			return err
		}
		if _, err := a.Eng.Finish(p); err != nil {
			return err
		}
		names := p.BranchNames()

		if ref == "" {
			branch, err = tui.SelectOne("Check out which branch?", append(names, a.Cfg.Local))
		} else {
			branch, err = ResolveDeltaRef(ref, names)
		}
		if err != nil {
			return err
		}
	}

	if err := a.Run.CheckoutBranch(ctx, branch); err != nil {
		return err
	}
	a.Log.Info("Switched to %s.", output.BranchStyle(branch))
	return nil
}
