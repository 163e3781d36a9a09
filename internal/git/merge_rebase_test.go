package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gitbridge.dev/gitbridge/internal/errors"
	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/testhelpers"
)

// conflictedMergeScene builds a repository with main and feature editing the
// same lines, then starts a merge with the git executable so a real conflict
// state is on disk.
func conflictedMergeScene(t *testing.T) *testhelpers.Scene {
	t.Helper()
	scene := testhelpers.NewScene(t, nil)

	require.NoError(t, scene.Repo.WriteFile("shared.txt", "base"))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "base"))

	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.WriteFile("shared.txt", "feature edit"))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "feature change"))

	require.NoError(t, scene.Repo.CheckoutBranch("main"))
	require.NoError(t, scene.Repo.WriteFile("shared.txt", "main edit"))
	require.NoError(t, scene.Repo.RunGitCommand("add", "."))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "main change"))

	return scene
}

func TestMergeFastForward(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend git.Backend) {
		ctx := context.Background()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature work", "f"))
		featureSHA, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CheckoutBranch("main"))

		err = backend.Merge(ctx, scene.Dir, "feature", git.MergeOptions{})
		require.NoError(t, err)

		mainSHA, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, featureSHA, mainSHA)

		// The working tree advanced with the branch.
		content, err := scene.Repo.ReadFile("f_test.txt")
		require.NoError(t, err)
		require.Equal(t, "feature work", content)
	})
}

func TestMergeAlreadyUpToDate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend git.Backend) {
		ctx := context.Background()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		require.NoError(t, scene.Repo.CreateBranch("behind"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("ahead", "a"))
		before, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)

		err = backend.Merge(ctx, scene.Dir, "behind", git.MergeOptions{})
		require.NoError(t, err)

		after, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
}

func TestMergeConflictNative(t *testing.T) {
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	ctx := context.Background()
	backend := git.New(git.KindNative)
	scene := conflictedMergeScene(t)

	err := backend.Merge(ctx, scene.Dir, "feature", git.MergeOptions{})
	require.ErrorIs(t, err, errors.ErrConflict)

	require.Equal(t, git.StateMergeInProgress, git.ProbeControlState(scene.Dir))

	// Both backends read the same unmerged index entries.
	for _, reader := range backendsUnderTest() {
		files, err := reader.ConflictedFiles(ctx, scene.Dir)
		require.NoError(t, err)
		require.Equal(t, []string{"shared.txt"}, files, "backend %s", reader.Kind())
	}
}

func TestMergeDivergedEmbedded(t *testing.T) {
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	ctx := context.Background()
	backend := git.New(git.KindEmbedded)
	scene := conflictedMergeScene(t)

	// The embedded backend cannot run a three-way merge, so divergence is
	// itself a conflict, with no merge state left behind.
	err := backend.Merge(ctx, scene.Dir, "feature", git.MergeOptions{})
	require.ErrorIs(t, err, errors.ErrConflict)

	require.Equal(t, git.StateClean, git.ProbeControlState(scene.Dir))
}

func TestMergeAbort(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend git.Backend) {
		ctx := context.Background()
		scene := conflictedMergeScene(t)
		native := git.New(git.KindNative)

		preMergeSHA, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)

		err = native.Merge(ctx, scene.Dir, "feature", git.MergeOptions{})
		require.ErrorIs(t, err, errors.ErrConflict)
		require.True(t, scene.Repo.MergeInProgress())

		err = backend.MergeAbort(ctx, scene.Dir)
		require.NoError(t, err)

		require.False(t, scene.Repo.MergeInProgress())
		sha, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, preMergeSHA, sha)

		clean, err := backend.IsClean(ctx, scene.Dir)
		require.NoError(t, err)
		require.True(t, clean)

		content, err := scene.Repo.ReadFile("shared.txt")
		require.NoError(t, err)
		require.Equal(t, "main edit", content)
	})
}

func TestMergeAbortWithoutMergeInProgress(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend git.Backend) {
		ctx := context.Background()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		err := backend.MergeAbort(ctx, scene.Dir)
		require.ErrorIs(t, err, errors.ErrNoMergeInProgress)
	})
}

func TestRebaseFastForward(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend git.Backend) {
		ctx := context.Background()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		// feature stays at the initial commit while main advances.
		require.NoError(t, scene.Repo.CreateBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main ahead", "m"))
		mainSHA, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)

		require.NoError(t, scene.Repo.CheckoutBranch("feature"))
		err = backend.Rebase(ctx, scene.Dir, "main")
		require.NoError(t, err)

		featureSHA, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, mainSHA, featureSHA)

		branch, err := backend.CurrentBranch(ctx, scene.Dir)
		require.NoError(t, err)
		require.Equal(t, "feature", branch)
	})
}

func TestRebaseAlreadyUpToDate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend git.Backend) {
		ctx := context.Background()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		require.NoError(t, scene.Repo.CreateBranch("behind"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("ahead", "a"))
		before, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)

		err = backend.Rebase(ctx, scene.Dir, "behind")
		require.NoError(t, err)

		after, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
}

func TestRebaseDiverged(t *testing.T) {
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	ctx := context.Background()

	t.Run("native replays commits", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature work", "f"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main work", "m"))
		mainSHA, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CheckoutBranch("feature"))

		backend := git.New(git.KindNative)
		err = backend.Rebase(ctx, scene.Dir, "main")
		require.NoError(t, err)

		// main is now an ancestor of the replayed feature branch.
		isAncestor, err := scene.Repo.IsAncestor(mainSHA, "feature")
		require.NoError(t, err)
		require.True(t, isAncestor)
		testhelpers.ExpectCommits(t, scene.Repo, "feature", []string{"feature work", "main work", "1"})
	})

	t.Run("embedded refuses to replay", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature work", "f"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main work", "m"))
		require.NoError(t, scene.Repo.CheckoutBranch("feature"))
		before, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)

		backend := git.New(git.KindEmbedded)
		err = backend.Rebase(ctx, scene.Dir, "main")
		require.ErrorIs(t, err, errors.ErrUnsupportedCapability)

		// Nothing moved.
		after, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
}

// conflictedRebaseScene starts a rebase that stops on a conflict, using the
// git executable to produce the on-disk rebase state.
func conflictedRebaseScene(t *testing.T) (*testhelpers.Scene, string) {
	t.Helper()
	scene := conflictedMergeScene(t)
	native := git.New(git.KindNative)

	require.NoError(t, scene.Repo.CheckoutBranch("feature"))
	preRebaseSHA, err := scene.Repo.GetCurrentSHA()
	require.NoError(t, err)

	err = native.Rebase(context.Background(), scene.Dir, "main")
	require.ErrorIs(t, err, errors.ErrConflict)
	require.True(t, scene.Repo.RebaseInProgress())

	return scene, preRebaseSHA
}

func TestRebaseConflictNative(t *testing.T) {
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	scene, _ := conflictedRebaseScene(t)

	require.Equal(t, git.StateRebaseInProgress, git.ProbeControlState(scene.Dir))

	files, err := git.New(git.KindNative).ConflictedFiles(context.Background(), scene.Dir)
	require.NoError(t, err)
	require.Equal(t, []string{"shared.txt"}, files)
}

func TestRebaseAbort(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend git.Backend) {
		ctx := context.Background()
		scene, preRebaseSHA := conflictedRebaseScene(t)

		err := backend.RebaseAbort(ctx, scene.Dir)
		require.NoError(t, err)

		require.False(t, scene.Repo.RebaseInProgress())
		require.Equal(t, git.StateClean, git.ProbeControlState(scene.Dir))

		branch, err := backend.CurrentBranch(ctx, scene.Dir)
		require.NoError(t, err)
		require.Equal(t, "feature", branch)

		sha, err := scene.Repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, preRebaseSHA, sha)

		clean, err := backend.IsClean(ctx, scene.Dir)
		require.NoError(t, err)
		require.True(t, clean)
	})
}

func TestRebaseAbortWithoutRebaseInProgress(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend git.Backend) {
		ctx := context.Background()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		err := backend.RebaseAbort(ctx, scene.Dir)
		require.ErrorIs(t, err, errors.ErrNoRebaseInProgress)
	})
}

func TestRebaseContinue(t *testing.T) {
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	ctx := context.Background()

	t.Run("native resumes after staged resolutions", func(t *testing.T) {
		scene, _ := conflictedRebaseScene(t)
		backend := git.New(git.KindNative)

		require.NoError(t, scene.Repo.WriteFile("shared.txt", "resolved"))
		require.NoError(t, scene.Repo.MarkMergeConflictsAsResolved())

		err := backend.RebaseContinue(ctx, scene.Dir)
		require.NoError(t, err)

		require.False(t, scene.Repo.RebaseInProgress())
		testhelpers.ExpectCommits(t, scene.Repo, "feature", []string{"feature change", "main change", "base"})
	})

	t.Run("embedded cannot resume", func(t *testing.T) {
		scene, _ := conflictedRebaseScene(t)
		backend := git.New(git.KindEmbedded)

		err := backend.RebaseContinue(ctx, scene.Dir)
		require.ErrorIs(t, err, errors.ErrUnsupportedCapability)
	})
}
