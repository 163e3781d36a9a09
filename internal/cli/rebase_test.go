package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitbridge.dev/gitbridge/testhelpers"
)

func TestRebaseCommand(t *testing.T) {
	t.Run("fast-forwards a branch with no own commits", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		require.NoError(t, scene.Repo.CreateBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("2", ""))
		require.NoError(t, scene.Repo.CheckoutBranch("feature"))

		output := r.mustRun("rebase", "main")
		require.Contains(t, output, "Rebased onto main")

		mainSHA, err := scene.Repo.GetBranchSHA("main")
		require.NoError(t, err)
		head, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, mainSHA, head)
	})

	t.Run("replays diverged commits on the native backend", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir).withEnv("GITBRIDGE_EMBEDDED_GIT=0")

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature work", "feature"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main work", "main"))
		require.NoError(t, scene.Repo.CheckoutBranch("feature"))

		output := r.mustRun("rebase", "main")
		require.Contains(t, output, "Rebased onto main")

		onMain, err := scene.Repo.IsAncestor("main", "feature")
		require.NoError(t, err)
		require.True(t, onMain)
	})

	t.Run("replaying diverged commits is native-only", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature work", "feature"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main work", "main"))
		require.NoError(t, scene.Repo.CheckoutBranch("feature"))

		output, err := r.run("rebase", "main")
		require.Error(t, err)
		require.Contains(t, output, "does not support")
	})

	t.Run("conflicts point at continue and abort", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, nil)
		r := newRunner(t, scene.Dir).withEnv("GITBRIDGE_EMBEDDED_GIT=0")

		require.NoError(t, scene.Repo.CreateChangeAndCommit("base", ""))
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature side", ""))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main side", ""))
		require.NoError(t, scene.Repo.CheckoutBranch("feature"))

		output, err := r.run("rebase", "main")
		require.Error(t, err)
		require.Contains(t, output, "stopped on conflicts")
		require.Contains(t, output, "rebase --continue")
		require.True(t, scene.Repo.RebaseInProgress())

		// Resolve the conflict and resume.
		require.NoError(t, scene.Repo.WriteFile("test.txt", "resolved"))
		require.NoError(t, scene.Repo.MarkMergeConflictsAsResolved())

		resumed := r.mustRun("rebase", "--continue")
		require.Contains(t, resumed, "Rebase continued")
		require.False(t, scene.Repo.RebaseInProgress())

		onMain, err := scene.Repo.IsAncestor("main", "feature")
		require.NoError(t, err)
		require.True(t, onMain)
	})

	t.Run("abort works from either backend", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, nil)
		native := newRunner(t, scene.Dir).withEnv("GITBRIDGE_EMBEDDED_GIT=0")

		require.NoError(t, scene.Repo.CreateChangeAndCommit("base", ""))
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature side", ""))
		preRebase, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main side", ""))
		require.NoError(t, scene.Repo.CheckoutBranch("feature"))

		_, err = native.run("rebase", "main")
		require.Error(t, err)
		require.True(t, scene.Repo.RebaseInProgress())

		embedded := newRunner(t, scene.Dir)
		output := embedded.mustRun("rebase", "--abort")
		require.Contains(t, output, "Rebase aborted")
		require.False(t, scene.Repo.RebaseInProgress())

		head, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, preRebase, head)

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "feature", branch)
	})

	t.Run("continue and abort are mutually exclusive", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		output, err := r.run("rebase", "--continue", "--abort")
		require.Error(t, err)
		require.Contains(t, output, "none of the others can be")
	})
}
