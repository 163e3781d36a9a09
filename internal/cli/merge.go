package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
	"gitbridge.dev/gitbridge/internal/output"
	"gitbridge.dev/gitbridge/internal/runtime"
)

// newMergeCmd creates the merge command.
func newMergeCmd(opts *rootOptions) *cobra.Command {
	var abort bool

	cmd := &cobra.Command{
		Use:   "merge [branch]",
		Short: "Integrate a branch into the current branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if abort {
				if len(args) > 0 {
					return errors.New("--abort takes no branch argument")
				}
				if err := rt.Engine.MergeAbort(cmd.Context(), rt.App); err != nil {
					return err
				}
				rt.Splog.Info("Merge aborted")
				return nil
			}

			if len(args) == 0 {
				return errors.New("branch to merge required")
			}
			branch := args[0]

			if err := rt.Engine.Merge(cmd.Context(), rt.App, branch); err != nil {
				return describeConflict(cmd.Context(), rt, err)
			}

			rt.Splog.Info("Merged %s", output.Branch(branch, false))
			return nil
		},
	}

	cmd.Flags().BoolVar(&abort, "abort", false, "Abandon the unfinished merge and restore the pre-merge state")

	return cmd
}

// describeConflict prints the conflicting paths and how to move forward
// before handing the error back to cobra. Backends do not always carry the
// file list on the error, so it is read from the repository when missing.
func describeConflict(ctx context.Context, rt *runtime.Context, err error) error {
	var conflict *bridgeerrors.ConflictError
	if !errors.As(err, &conflict) {
		return err
	}

	files := conflict.Files
	if len(files) == 0 {
		files, _ = rt.Engine.ConflictedFiles(ctx, rt.App)
	}

	rt.Splog.Warn("%s stopped on conflicts", conflict.Op)
	for _, file := range files {
		rt.Splog.Info("  %s", output.Bad(file))
	}
	switch conflict.Op {
	case "rebase":
		rt.Splog.Tip("resolve the files, stage them, and run 'gitbridge rebase --continue', or 'gitbridge rebase --abort'")
	default:
		rt.Splog.Tip("resolve the files and conclude with 'git commit', or back out with 'gitbridge merge --abort'")
	}
	return err
}
