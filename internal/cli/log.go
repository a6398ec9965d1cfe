package cli

import (
	"github.com/spf13/cobra"
)

// newLogCmd creates the log command
func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the local commits that are not on upstream",
		Long:  "Alias for `git log <local> ^<upstream>`.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.guardUndiverged(cmd.Context()); err != nil {
				return err
			}
			if current, err := app.Run.CurrentBranch(); err != nil || current != app.Cfg.Local {
				app.Log.Warn("Warning: not on local branch.")
			}
			return app.Cmd.RunInteractive("log", app.Cfg.Local, "^"+app.Cfg.UpstreamRef())
		},
	}

	return cmd
}
