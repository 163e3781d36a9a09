package cli

import (
	"github.com/spf13/cobra"
)

// newAddCmd creates the add command. With no arguments it stages the
// whole worktree, matching what the sync flows do before a commit.
func newAddCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [file...]",
		Short: "Stage files for the next commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Engine.Add(cmd.Context(), rt.App, args...); err != nil {
				return err
			}

			if len(args) == 0 {
				rt.Splog.Info("Staged all changes")
			} else {
				rt.Splog.Info("Staged %d file(s)", len(args))
			}
			return nil
		},
	}

	return cmd
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <file>...",
		Aliases: []string{"remove"},
		Short:   "Stop tracking files, keeping them on disk",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Engine.Remove(cmd.Context(), rt.App, args...); err != nil {
				return err
			}

			rt.Splog.Info("Removed %d file(s) from the index", len(args))
			return nil
		},
	}

	return cmd
}

func newUnstageCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unstage [file...]",
		Short: "Remove files from the index but keep worktree changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Engine.Unstage(cmd.Context(), rt.App, args...); err != nil {
				return err
			}

			rt.Splog.Info("Unstaged changes")
			return nil
		},
	}

	return cmd
}
