package cli

import (
	"github.com/spf13/cobra"
)

// newRemixCmd creates the remix command
func newRemixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remix",
		Short: "Interactively rebase the local branch onto upstream",
		Long: `Alias for ` + "`git rebase -i <upstream>`" + `.

Only works when on the local branch. Follow up with ` + "`flok write`" + ` to
carry the reworked commits into the delta branches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if err := app.guardCleanWorkTree(ctx); err != nil {
				return err
			}
			if err := app.guardUndiverged(ctx); err != nil {
				return err
			}
			if err := app.guardOnLocal(); err != nil {
				return err
			}
			return app.Cmd.RunInteractive("rebase", "-i", app.Cfg.UpstreamRef())
		},
	}

	return cmd
}
