// Package cli defines the gitbridge command tree. Commands are thin: they
// parse flags, build a runtime context, call one engine operation, and print
// the outcome. All policy lives in the engine.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gitbridge.dev/gitbridge/internal/runtime"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	dir        string
	appID      string
	debug      bool
	configPath string
}

// runtime builds the context for the repository named by --dir.
func (o *rootOptions) runtime() (*runtime.Context, error) {
	return o.runtimeAt(o.dir)
}

// runtimeAt builds the context for an explicit repository path; clone uses it
// for the positional destination argument.
func (o *rootOptions) runtimeAt(dir string) (*runtime.Context, error) {
	return runtime.New(runtime.Options{
		Dir:        dir,
		AppID:      o.appID,
		Debug:      o.debug,
		ConfigPath: o.configPath,
	})
}

// registerSafeDirectoryAsync starts safe.directory registration concurrently
// with the calling operation and returns a channel that closes when it is
// done. Failures are recorded in the debug trace only: an unregistered
// directory fails loudly later if git enforcement applies to it.
func registerSafeDirectoryAsync(ctx context.Context, rt *runtime.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = rt.Engine.RegisterSafeDirectory(ctx, rt.App)
	}()
	return done
}

// NewRootCmd creates the root gitbridge command.
func NewRootCmd(version, commit, date string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gitbridge",
		Short: "Gitbridge drives git repositories through interchangeable native and embedded backends",
		Long: `Gitbridge drives git repositories through two interchangeable backends: the
system git executable and an in-process implementation. Which one runs is a
settings flag read on every call, so the backend can be flipped at runtime.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "Path to the repository to operate on")
	rootCmd.PersistentFlags().StringVar(&opts.appID, "app-id", "", "Stable identity for the per-repository lock (defaults to the path)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug console logging")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the settings file")

	rootCmd.AddCommand(
		newInitCmd(opts),
		newCloneCmd(opts),
		newStatusCmd(opts),
		newCommitCmd(opts),
		newCheckoutCmd(opts),
		newBranchCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
		newUnstageCmd(opts),
		newRevertCmd(opts),
		newLogCmd(opts),
		newRemoteCmd(opts),
		newFetchCmd(opts),
		newPullCmd(opts),
		newPushCmd(opts),
		newMergeCmd(opts),
		newRebaseCmd(opts),
		newConnectCmd(opts),
		newShowCmd(opts),
		newResolveCmd(opts),
		newConfigCmd(opts),
	)

	return rootCmd
}
