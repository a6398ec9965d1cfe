package cli

import (
	"github.com/spf13/cobra"
)

// newPullCmd creates the pull command
func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Rebase the local branch onto the remote upstream",
		Long: `Alias for ` + "`git pull --rebase <remote> <upstream>`" + `.

Only works when on the local branch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.guardRemote(); err != nil {
				return err
			}
			if err := app.guardOnLocal(); err != nil {
				return err
			}
			return app.Cmd.RunInteractive("pull", "--rebase", app.Cfg.Remote, app.Cfg.Upstream)
		},
	}

	return cmd
}
