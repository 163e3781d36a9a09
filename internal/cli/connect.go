package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/engine"
	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/output"
	"gitbridge.dev/gitbridge/internal/tui"
)

// newConnectCmd creates the connect command. It runs the full branch
// preparation protocol: point the remote, fetch, then land on the wanted
// branch whether it is new, local, or only exists on the remote.
func newConnectCmd(opts *rootOptions) *cobra.Command {
	var (
		branch string
		remote string
		url    string
		token  string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect the repository to a remote and prepare a branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			var prepared string
			err = tui.RunWithProgress(fmt.Sprintf("Preparing branch on %s", remote), func() error {
				var prepErr error
				prepared, prepErr = rt.Engine.PrepareBranch(cmd.Context(), rt.App, engine.PrepareOptions{
					Branch:    branch,
					Remote:    remote,
					RemoteURL: url,
					Token:     token,
				})
				return prepErr
			})
			if err != nil {
				return err
			}

			rt.Splog.Info("Prepared branch %s", output.Branch(prepared, true))
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "Branch to prepare (defaults to the configured default branch)")
	cmd.Flags().StringVar(&remote, "remote", git.DefaultRemote, "Remote name")
	cmd.Flags().StringVar(&url, "url", "", "Remote URL to set before preparing")
	cmd.Flags().StringVar(&token, "token", "", "Access token for the remote (never persisted)")

	return cmd
}
