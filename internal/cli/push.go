package cli

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/output"
	"gitbridge.dev/gitbridge/internal/tui"
)

// newPushCmd creates the push command.
func newPushCmd(opts *rootOptions) *cobra.Command {
	var (
		remote         string
		branch         string
		token          string
		force          bool
		forceWithLease bool
		yes            bool
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Send a branch to the remote",
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
					return fmt.Errorf("not on a branch; pass --branch to push a specific one")
				}
				if err != nil {
					return err
				}
			}

			if force && !yes {
				if !tui.IsTTY() {
					return fmt.Errorf("refusing to force push without confirmation (pass --yes)")
				}
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Force push rewrites %s on %s. Continue?", name, remote),
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					rt.Splog.Info("Push aborted")
					return nil
				}
			}

			err = tui.RunWithProgress(fmt.Sprintf("Pushing %s to %s", name, remote), func() error {
				return rt.Engine.Push(cmd.Context(), rt.App, git.PushOptions{
					Remote:         remote,
					Branch:         name,
					Token:          token,
					Force:          force,
					ForceWithLease: forceWithLease,
				})
			})
			if err != nil {
				return err
			}

			rt.Splog.Info("Pushed %s to %s", output.Branch(name, false), remote)
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", git.DefaultRemote, "Remote name")
	cmd.Flags().StringVar(&branch, "branch", "", "Branch to push (defaults to the current branch)")
	cmd.Flags().StringVar(&token, "token", "", "Access token for the remote (never persisted)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite the remote branch")
	cmd.Flags().BoolVar(&forceWithLease, "force-with-lease", false, "Overwrite only if the remote branch has not moved")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the force push confirmation")
	cmd.MarkFlagsMutuallyExclusive("force", "force-with-lease")

	return cmd
}
