package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/output"
)

// newRebaseCmd creates the rebase command.
func newRebaseCmd(opts *rootOptions) *cobra.Command {
	var (
		cont  bool
		abort bool
	)

	cmd := &cobra.Command{
		Use:   "rebase [branch]",
		Short: "Replay the current branch onto another branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			switch {
			case cont:
				if err := rt.Engine.RebaseContinue(cmd.Context(), rt.App); err != nil {
					return describeConflict(cmd.Context(), rt, err)
				}
				rt.Splog.Info("Rebase continued")
				return nil
			case abort:
				if err := rt.Engine.RebaseAbort(cmd.Context(), rt.App); err != nil {
					return err
				}
				rt.Splog.Info("Rebase aborted")
				return nil
			}

			if len(args) == 0 {
				return errors.New("branch to rebase onto required")
			}
			onto := args[0]

			if err := rt.Engine.Rebase(cmd.Context(), rt.App, onto); err != nil {
				return describeConflict(cmd.Context(), rt, err)
			}

			rt.Splog.Info("Rebased onto %s", output.Branch(onto, false))
			return nil
		},
	}

	cmd.Flags().BoolVar(&cont, "continue", false, "Resume after resolving conflicts")
	cmd.Flags().BoolVar(&abort, "abort", false, "Abandon the rebase and restore the original branch")
	cmd.MarkFlagsMutuallyExclusive("continue", "abort")

	return cmd
}
