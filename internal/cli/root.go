package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flok",
		Short: "Flok turns the commits on your development branch into stacked review branches",
		Long: `Flok turns the commits on your development branch into stacked review branches.

You keep committing to a single local branch; flok derives one review branch
per delta from a plain-text integration plan you edit, keeps those branches in
sync with your commits, and force-pushes them for review.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newWriteCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newCheckoutCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newRemixCmd())

	return rootCmd
}
