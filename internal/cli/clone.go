package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/tui"
)

// newCloneCmd creates the clone command.
func newCloneCmd(opts *rootOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "clone <url> [dir]",
		Short: "Clone a repository",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			dir := opts.dir
			if len(args) == 2 {
				dir = args[1]
			}

			rt, err := opts.runtimeAt(dir)
			if err != nil {
				return err
			}
			defer rt.Close()

			registered := registerSafeDirectoryAsync(cmd.Context(), rt)

			err = tui.RunWithProgress(fmt.Sprintf("Cloning %s", git.Redact(url)), func() error {
				return rt.Engine.Clone(cmd.Context(), rt.App, url, git.CloneOptions{Token: token})
			})
			if err != nil {
				return err
			}
			<-registered

			rt.Splog.Info("Cloned %s into %s", git.Redact(url), rt.App.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token for the remote (never persisted)")

	return cmd
}
