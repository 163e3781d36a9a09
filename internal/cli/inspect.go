package cli

import (
	"github.com/spf13/cobra"
)

// newShowCmd creates the show command.
func newShowCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <ref> <file>",
		Short: "Print a file as it was at a commit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			content, err := rt.Engine.FileAtCommit(cmd.Context(), rt.App, args[0], args[1])
			if err != nil {
				return err
			}

			rt.Splog.Page(content)
			return nil
		},
	}

	return cmd
}

// newResolveCmd creates the resolve command.
func newResolveCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <ref>",
		Short: "Print the commit id a ref points at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			oid, err := rt.Engine.ResolveRef(cmd.Context(), rt.App, args[0])
			if err != nil {
				return err
			}

			rt.Splog.Info("%s", oid)
			return nil
		},
	}

	return cmd
}
