package cli

import (
	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/git"
)

// newRemoteCmd creates the remote command and its set subcommand.
func newRemoteCmd(opts *rootOptions) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Show or change where the repository syncs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			url, err := rt.Engine.RemoteURL(cmd.Context(), rt.App, remote)
			if err != nil {
				return err
			}

			rt.Splog.Info("%s", git.Redact(url))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&remote, "remote", git.DefaultRemote, "Remote name")

	cmd.AddCommand(newRemoteSetCmd(opts, &remote))

	return cmd
}

func newRemoteSetCmd(opts *rootOptions, remote *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <url>",
		Short: "Point the remote at a new URL, creating it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			url := args[0]
			if err := rt.Engine.SetRemoteURL(cmd.Context(), rt.App, *remote, url); err != nil {
				return err
			}

			rt.Splog.Info("Remote %s set to %s", *remote, git.Redact(url))
			return nil
		},
	}

	return cmd
}
