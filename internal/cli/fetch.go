package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/tui"
)

// newFetchCmd creates the fetch command.
func newFetchCmd(opts *rootOptions) *cobra.Command {
	var (
		remote string
		token  string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download refs from the remote without touching the worktree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			err = tui.RunWithProgress(fmt.Sprintf("Fetching from %s", remote), func() error {
				return rt.Engine.Fetch(cmd.Context(), rt.App, git.FetchOptions{
					Remote: remote,
					Token:  token,
				})
			})
			if err != nil {
				return err
			}

			rt.Splog.Info("Fetched from %s", remote)
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", git.DefaultRemote, "Remote name")
	cmd.Flags().StringVar(&token, "token", "", "Access token for the remote (never persisted)")

	return cmd
}
