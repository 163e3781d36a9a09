package cli

import (
	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/output"
)

// newInitCmd creates the init command.
func newInitCmd(opts *rootOptions) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			registered := registerSafeDirectoryAsync(cmd.Context(), rt)

			if err := rt.Engine.Init(cmd.Context(), rt.App, git.InitOptions{DefaultBranch: branch}); err != nil {
				return err
			}
			<-registered

			name := branch
			if name == "" {
				name = rt.Store.Current().Branch()
			}
			rt.Splog.Info("Initialized empty repository on branch %s", output.Branch(name, true))
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Initial branch name")

	return cmd
}
