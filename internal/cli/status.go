package cli

import (
	"errors"

	"github.com/spf13/cobra"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/output"
)

// newStatusCmd creates the status command.
func newStatusCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show branch, working tree, and in-progress operation state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()
			ctx := cmd.Context()

			branch, err := rt.Engine.CurrentBranch(ctx, rt.App)
			switch {
			case err == nil:
				rt.Splog.Info("On branch %s", output.Branch(branch, true))
			case errors.Is(err, bridgeerrors.ErrNotOnBranch):
				oid, resolveErr := rt.Engine.ResolveRef(ctx, rt.App, "HEAD")
				if resolveErr != nil {
					return resolveErr
				}
				rt.Splog.Info("HEAD detached at %s", output.OID(oid))
			default:
				return err
			}

			if state := rt.Engine.State(rt.App); state != git.StateClean {
				if state == git.StateMergeInProgress {
					rt.Splog.Warn("Merge in progress")
				} else {
					rt.Splog.Warn("Rebase in progress")
				}
				files, _ := rt.Engine.ConflictedFiles(ctx, rt.App)
				for _, file := range files {
					rt.Splog.Info("  %s", output.Bad(file))
				}
				if state == git.StateMergeInProgress {
					rt.Splog.Tip("resolve and conclude with 'git commit', or back out with 'gitbridge merge --abort'")
				} else {
					rt.Splog.Tip("resolve and run 'gitbridge rebase --continue', or 'gitbridge rebase --abort'")
				}
				return nil
			}

			clean, err := rt.Engine.IsClean(ctx, rt.App)
			if err != nil {
				return err
			}
			if clean {
				rt.Splog.Info("%s", output.Good("Working tree clean"))
			} else {
				rt.Splog.Info("Working tree has uncommitted changes")
			}
			return nil
		},
	}

	return cmd
}
