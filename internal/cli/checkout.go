package cli

import (
	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/output"
)

// newCheckoutCmd creates the checkout command.
func newCheckoutCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkout <ref>",
		Aliases: []string{"co"},
		Short:   "Switch to a branch or commit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			ref := args[0]
			if err := rt.Engine.Checkout(cmd.Context(), rt.App, ref); err != nil {
				return err
			}

			rt.Splog.Info("Checked out %s", output.Branch(ref, false))
			return nil
		},
	}

	return cmd
}
