package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/output"
)

// newRevertCmd creates the revert command. It stages the full worktree
// restore and commits it in one step, so history moves forward even
// though the tree moves back.
func newRevertCmd(opts *rootOptions) *cobra.Command {
	var (
		message  string
		noCommit bool
	)

	cmd := &cobra.Command{
		Use:   "revert <ref>",
		Short: "Restore the worktree to a previous commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			target, err := rt.Engine.ResolveRef(cmd.Context(), rt.App, args[0])
			if err != nil {
				return err
			}

			if err := rt.Engine.StageRevertToCommit(cmd.Context(), rt.App, target); err != nil {
				return err
			}

			if noCommit {
				rt.Splog.Info("Staged revert to %s", output.OID(target))
				rt.Splog.Tip("run 'gitbridge commit' to record it")
				return nil
			}

			msg := message
			if msg == "" {
				msg = fmt.Sprintf("Reverted all changes back to version %s", target)
			}
			oid, err := rt.Engine.Commit(cmd.Context(), rt.App, msg, false)
			if err != nil {
				return err
			}

			rt.Splog.Info("Reverted to %s as %s", output.OID(target), output.OID(oid))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message for the revert")
	cmd.Flags().BoolVar(&noCommit, "no-commit", false, "Stage the revert without committing")

	return cmd
}
