package cli

import (
	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/output"
)

// newBranchCmd creates the branch command and its subcommands.
func newBranchCmd(opts *rootOptions) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "branch",
		Short: "List, create, rename, or delete branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if remote != "" {
				names, err := rt.Engine.ListRemoteBranches(cmd.Context(), rt.App, remote)
				if err != nil {
					return err
				}
				for _, name := range names {
					rt.Splog.Info("%s", output.Branch(name, false))
				}
				return nil
			}

			names, err := rt.Engine.ListLocalBranches(cmd.Context(), rt.App)
			if err != nil {
				return err
			}
			current, err := rt.Engine.CurrentBranch(cmd.Context(), rt.App)
			if err != nil {
				current = ""
			}
			for _, name := range names {
				rt.Splog.Info("%s", output.Branch(name, name == current))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "List branches on the named remote instead")

	cmd.AddCommand(newBranchCreateCmd(opts))
	cmd.AddCommand(newBranchRenameCmd(opts))
	cmd.AddCommand(newBranchDeleteCmd(opts))

	return cmd
}

func newBranchCreateCmd(opts *rootOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a branch without checking it out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			name := args[0]
			if err := rt.Engine.CreateBranch(cmd.Context(), rt.App, name, from); err != nil {
				return err
			}

			rt.Splog.Info("Created branch %s", output.Branch(name, false))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start point for the new branch (defaults to HEAD)")

	return cmd
}

func newBranchRenameCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a local branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			oldName, newName := args[0], args[1]
			if err := rt.Engine.RenameBranch(cmd.Context(), rt.App, oldName, newName); err != nil {
				return err
			}

			rt.Splog.Info("Renamed branch %s to %s", output.Branch(oldName, false), output.Branch(newName, false))
			return nil
		},
	}

	return cmd
}

func newBranchDeleteCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a local branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			name := args[0]
			if name == git.DefaultBranch {
				rt.Splog.Warn("Deleting %s removes the default branch", name)
			}
			if err := rt.Engine.DeleteBranch(cmd.Context(), rt.App, name); err != nil {
				return err
			}

			rt.Splog.Info("Deleted branch %s", output.Branch(name, false))
			return nil
		},
	}

	return cmd
}
