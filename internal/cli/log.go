package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/output"
	"gitbridge.dev/gitbridge/internal/tui"
)

// newLogCmd creates the log command.
func newLogCmd(opts *rootOptions) *cobra.Command {
	var (
		limit       int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			commits, err := rt.Engine.Log(cmd.Context(), rt.App, git.LogOptions{Depth: limit})
			if err != nil {
				return err
			}
			if len(commits) == 0 {
				rt.Splog.Info("No commits yet")
				return nil
			}

			if interactive && tui.IsTTY() {
				items := lo.Map(commits, func(c git.Commit, _ int) tui.CommitItem {
					return tui.CommitItem{OID: c.OID, Message: c.Message, When: c.When}
				})
				oid, err := tui.RunHistoryBrowser(items)
				if err != nil {
					return err
				}
				rt.Splog.Info("%s", oid)
				return nil
			}

			rows := lo.Map(commits, func(c git.Commit, _ int) string {
				return fmt.Sprintf("%s %s %s",
					output.OID(c.OID),
					output.Dim(c.When.Format("2006-01-02")),
					output.Subject(c.Message))
			})
			rt.Splog.Page(strings.Join(rows, "\n") + "\n")
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of commits to show (0 for all)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse history and print the selected commit id")

	return cmd
}
