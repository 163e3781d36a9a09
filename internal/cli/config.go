package cli

import (
	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/config"
	"gitbridge.dev/gitbridge/internal/output"
)

// newConfigCmd creates the config command. Without flags it prints the
// effective settings; flags update the persisted document.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	var (
		native        bool
		embedded      bool
		authorName    string
		authorEmail   string
		defaultBranch string
		logFile       string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change gitbridge settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			changed := cmd.Flags().NFlag() > 0
			if !changed {
				settings := rt.Store.Current()
				author := settings.Author()
				rt.Splog.Info("backend:        %s", settings.BackendKind())
				rt.Splog.Info("author:         %s <%s>", author.Name, author.Email)
				rt.Splog.Info("default branch: %s", output.Branch(settings.Branch(), false))
				if settings.LogFile != "" {
					rt.Splog.Info("log file:       %s", settings.LogFile)
				}
				rt.Splog.Info("settings file:  %s", rt.Store.Path())
				return nil
			}

			err = rt.Store.Update(func(s *config.Settings) {
				if cmd.Flags().Changed("native") && native {
					useEmbedded := false
					s.UseEmbeddedGit = &useEmbedded
				}
				if cmd.Flags().Changed("embedded") && embedded {
					useEmbedded := true
					s.UseEmbeddedGit = &useEmbedded
				}
				if cmd.Flags().Changed("author-name") {
					s.AuthorName = authorName
				}
				if cmd.Flags().Changed("author-email") {
					s.AuthorEmail = authorEmail
				}
				if cmd.Flags().Changed("default-branch") {
					s.DefaultBranch = defaultBranch
				}
				if cmd.Flags().Changed("log-file") {
					s.LogFile = logFile
				}
			})
			if err != nil {
				return err
			}

			rt.Splog.Info("Settings updated")
			rt.Splog.Info("backend: %s", rt.Store.Current().BackendKind())
			return nil
		},
	}

	cmd.Flags().BoolVar(&native, "native", false, "Run git operations through the git executable")
	cmd.Flags().BoolVar(&embedded, "embedded", false, "Run git operations in-process")
	cmd.Flags().StringVar(&authorName, "author-name", "", "Commit author name")
	cmd.Flags().StringVar(&authorEmail, "author-email", "", "Commit author email")
	cmd.Flags().StringVar(&defaultBranch, "default-branch", "", "Branch name for new repositories")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Debug log destination")
	cmd.MarkFlagsMutuallyExclusive("native", "embedded")

	return cmd
}
