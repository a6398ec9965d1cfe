package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"flok.dev/flok/internal/output"
	"flok.dev/flok/internal/plan"
	"flok.dev/flok/internal/tui"
)

// newPushCmd creates the push command
func newPushCmd() *cobra.Command {
	var (
		interactive  bool
		mergeRequest bool
		write        bool
	)

	cmd := &cobra.Command{
		Use:   "push [ref...]",
		Short: "Force-push delta branches to the remote",
		Long: `Force-push delta branches to the remote.

Without arguments every delta branch is pushed. A ref selects one delta by
index ("1" or "d1") or by a unique substring of its branch name.

Each branch is pushed with --force --set-upstream. With
--gitlab-merge-request, GitLab push options open a merge request targeting
the delta's dependency branch. If a change-request command template is
configured it is run once per pushed branch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			return app.runPush(cmd.Context(), args, write, interactive, mergeRequest)
		},
	}

	// Add flags
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Also detect the current plan and write branches before pushing.")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Choose which branches to push.")
	cmd.Flags().BoolVarP(&mergeRequest, "gitlab-merge-request", "m", false, "Use GitLab-specific push options to create a merge request.")

	return cmd
}

func (a *App) runPush(ctx context.Context, refs []string, write, interactive, mergeRequest bool) error {
	if err := a.guardRemote(); err != nil {
		return err
	}

	p, err := a.Eng.Reconstruct(ctx)
	if err != nil {
		return err
	}
	if _, err := a.Eng.Finish(p); err != nil {
		return err
	}

	changed := false
	if write {
		switch err := a.apply(ctx, p, false); {
		case errors.Is(err, errChangesApplied):
			changed = true
		case err != nil:
			return err
		}
	}

	deltas := p.Deltas
	if len(refs) > 0 {
		names := p.BranchNames()
		picked := make([]*plan.Delta, 0, len(refs))
		for _, ref := range refs {
			name, err := ResolveDeltaRef(ref, names)
			if err != nil {
				return err
			}
			picked = append(picked, p.DeltaNamed(name))
		}
		deltas = picked
	}

	for _, d := range deltas {
		if interactive {
			ok, err := tui.Confirm(fmt.Sprintf("Push %s to %s?", d.BranchName, a.Cfg.Remote), true)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}

		a.Log.Info("Pushing %s.", output.BranchStyle(d.BranchName))
		var options []string
		if mergeRequest || a.Cfg.GitLabPushOptions {
			options = append(options, "merge_request.create")
			if d.Dep != plan.Upstream {
				options = append(options, "merge_request.target="+d.TargetName)
			}
		}
		refspec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", d.BranchName, d.BranchName)
		out, err := a.Run.Push(ctx, a.Cfg.Remote, refspec, options)
		if err != nil {
			return err
		}
		if out != "" {
			a.Log.Page(out + "\n")
		}

		if a.Cfg.CreateCommand != "" {
			if err := a.runCreateCommand(d); err != nil {
				return err
			}
		}
		changed = true
	}

	a.Log.Info("Delta branches updated.")
	if changed {
		return errChangesApplied
	}
	return nil
}

// runCreateCommand shells out the configured change-request template for a
// freshly pushed branch, with {branch} and {target} substituted
func (a *App) runCreateCommand(d *plan.Delta) error {
	command := strings.ReplaceAll(a.Cfg.CreateCommand, "{branch}", d.BranchName)
	command = strings.ReplaceAll(command, "{target}", d.TargetName)

	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
