package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitbridge.dev/gitbridge/testhelpers"
)

func TestConnectCommand(t *testing.T) {
	t.Run("creates a fresh branch with a sanitized name", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		output := r.mustRun("connect", "--branch", "My App")
		require.Contains(t, output, "Prepared branch My-App")

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "My-App", branch)
	})

	t.Run("checks out an existing local branch", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("work"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))

		r.mustRun("connect", "--branch", "work")

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "work", branch)
	})

	t.Run("defaults to the configured branch", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("side"))

		output := r.mustRun("connect")
		require.Contains(t, output, "Prepared branch main")

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "main", branch)
	})

	t.Run("tracks a branch that only exists on the remote", func(t *testing.T) {
		t.Parallel()
		publisher := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		bare, err := publisher.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, publisher.Repo.PushBranch("origin", "main"))
		require.NoError(t, publisher.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, publisher.Repo.CreateChangeAndCommit("2", "feature"))
		require.NoError(t, publisher.Repo.PushBranch("origin", "feature"))

		dest := filepath.Join(t.TempDir(), "clone")
		r := newRunner(t, t.TempDir())
		r.mustRun("clone", bare, dest)

		clone := &testhelpers.GitRepo{Dir: dest}
		cr := newRunner(t, dest)
		cr.mustRun("connect", "--branch", "feature")

		branch, err := clone.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "feature", branch)

		want, err := publisher.Repo.GetBranchSHA("feature")
		require.NoError(t, err)
		got, err := clone.GetBranchSHA("feature")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("fetches new remote branches when given a url", func(t *testing.T) {
		t.Parallel()
		publisher := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		clone := publishedClone(t, publisher)

		// Pushed after the clone, so only a fetch can reveal it.
		require.NoError(t, publisher.Repo.CreateAndCheckoutBranch("hotfix"))
		require.NoError(t, publisher.Repo.CreateChangeAndCommit("fix", "hotfix"))
		require.NoError(t, publisher.Repo.PushBranch("origin", "hotfix"))

		url, err := clone.RunGitCommandAndGetOutput("remote", "get-url", "origin")
		require.NoError(t, err)

		r := newRunner(t, clone.Dir)
		r.mustRun("connect", "--url", url, "--branch", "hotfix")

		branch, err := clone.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "hotfix", branch)

		want, err := publisher.Repo.GetBranchSHA("hotfix")
		require.NoError(t, err)
		got, err := clone.GetBranchSHA("hotfix")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("points the remote at the url", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		bare, err := scene.Repo.CreateBareRemote("seed")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.RunGitCommand("remote", "remove", "seed"))

		r.mustRun("connect", "--url", bare, "--branch", "work")

		url, err := scene.Repo.RunGitCommandAndGetOutput("remote", "get-url", "origin")
		require.NoError(t, err)
		require.Equal(t, bare, url)

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "work", branch)
	})

	t.Run("refuses on a dirty working tree", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		require.NoError(t, scene.Repo.CreateChange("dirty", "", true))

		output, err := r.run("connect", "--branch", "other")
		require.Error(t, err)
		require.Contains(t, output, "uncommitted changes")

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "main", branch)
	})
}
