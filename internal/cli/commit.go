package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/output"
	"gitbridge.dev/gitbridge/internal/tui"
)

// newCommitCmd creates the commit command.
func newCommitCmd(opts *rootOptions) *cobra.Command {
	var (
		message string
		amend   bool
	)

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record staged changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			msg := message
			if msg == "" {
				msg, err = readStdin()
				if err != nil {
					return err
				}
			}
			if msg == "" && tui.IsTTY() {
				msg, err = tui.PromptCommitMessage("")
				if err != nil {
					return err
				}
			}
			if strings.TrimSpace(msg) == "" {
				return fmt.Errorf("commit message required (pass -m or pipe one on stdin)")
			}

			oid, err := rt.Engine.Commit(cmd.Context(), rt.App, msg, amend)
			if err != nil {
				return err
			}

			rt.Splog.Info("Committed %s", output.OID(oid))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().BoolVar(&amend, "amend", false, "Replace the previous commit instead of adding a new one")

	return cmd
}
