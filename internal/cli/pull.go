package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/output"
	"gitbridge.dev/gitbridge/internal/tui"
)

// newPullCmd creates the pull command.
func newPullCmd(opts *rootOptions) *cobra.Command {
	var (
		remote string
		branch string
		token  string
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch and integrate a branch from the remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			name := branch
			if name == "" {
				name, err = rt.Engine.CurrentBranch(cmd.Context(), rt.App)
				if errors.Is(err, bridgeerrors.ErrNotOnBranch) {
					return fmt.Errorf("not on a branch; pass --branch to pull a specific one")
				}
				if err != nil {
					return err
				}
			}

			err = tui.RunWithProgress(fmt.Sprintf("Pulling %s from %s", name, remote), func() error {
				return rt.Engine.Pull(cmd.Context(), rt.App, git.PullOptions{
					Remote: remote,
					Branch: name,
					Token:  token,
				})
			})
			if err != nil {
				return describeConflict(cmd.Context(), rt, err)
			}

			rt.Splog.Info("Pulled %s from %s", output.Branch(name, false), remote)
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", git.DefaultRemote, "Remote name")
	cmd.Flags().StringVar(&branch, "branch", "", "Branch to pull (defaults to the current branch)")
	cmd.Flags().StringVar(&token, "token", "", "Access token for the remote (never persisted)")

	return cmd
}
