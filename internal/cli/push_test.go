package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitbridge.dev/gitbridge/testhelpers"
)

func TestPushCommand(t *testing.T) {
	t.Run("pushes the current branch", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		bare, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		output := r.mustRun("push")
		require.Contains(t, output, "Pushed main to origin")

		local, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		remote := &testhelpers.GitRepo{Dir: bare}
		pushed, err := remote.GetBranchSHA("main")
		require.NoError(t, err)
		require.Equal(t, local, pushed)
	})

	t.Run("pushes a named branch", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		bare, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CreateBranch("feature"))

		r.mustRun("push", "--branch", "feature")

		remote := &testhelpers.GitRepo{Dir: bare}
		_, err = remote.GetBranchSHA("feature")
		require.NoError(t, err)
	})

	t.Run("refuses to force push without confirmation", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		output, err := r.run("push", "--force")
		require.Error(t, err)
		require.Contains(t, output, "refusing to force push")
	})

	t.Run("force push with --yes overwrites the remote", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		bare, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.PushBranch("origin", "main"))

		// Rewrite local history so a plain push would be rejected.
		require.NoError(t, scene.Repo.CreateChangeAndAmend("rewritten", ""))
		_, err = r.run("push")
		require.Error(t, err)

		output := r.mustRun("push", "--force", "--yes")
		require.Contains(t, output, "Pushed main to origin")

		local, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		remote := &testhelpers.GitRepo{Dir: bare}
		pushed, err := remote.GetBranchSHA("main")
		require.NoError(t, err)
		require.Equal(t, local, pushed)
	})

	t.Run("force-with-lease needs the native backend", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		bare, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.PushBranch("origin", "main"))
		require.NoError(t, scene.Repo.CreateChangeAndAmend("rewritten", ""))

		output, err := r.run("push", "--force-with-lease")
		require.Error(t, err)
		require.Contains(t, output, "force-with-lease")

		r.withEnv("GITBRIDGE_EMBEDDED_GIT=0").mustRun("push", "--force-with-lease")

		local, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		remote := &testhelpers.GitRepo{Dir: bare}
		pushed, err := remote.GetBranchSHA("main")
		require.NoError(t, err)
		require.Equal(t, local, pushed)
	})

	t.Run("fails when detached", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		sha, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CheckoutDetached(sha))

		output, err := r.run("push")
		require.Error(t, err)
		require.Contains(t, output, "not on a branch")
	})
}
