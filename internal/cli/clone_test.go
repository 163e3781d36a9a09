package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitbridge.dev/gitbridge/testhelpers"
)

func TestCloneCommand(t *testing.T) {
	t.Run("clones into the named directory", func(t *testing.T) {
		t.Parallel()
		publisher := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		bare, err := publisher.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, publisher.Repo.PushBranch("origin", "main"))

		dest := filepath.Join(t.TempDir(), "app")
		r := newRunner(t, t.TempDir())

		output := r.mustRun("clone", bare, dest)
		require.Contains(t, output, "Cloned")

		clone := &testhelpers.GitRepo{Dir: dest}
		content, err := clone.ReadFile("test.txt")
		require.NoError(t, err)
		require.Equal(t, "1", content)

		branch, err := clone.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "main", branch)
	})

	t.Run("clones through the native backend", func(t *testing.T) {
		t.Parallel()
		publisher := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		bare, err := publisher.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, publisher.Repo.PushBranch("origin", "main"))

		dest := filepath.Join(t.TempDir(), "app")
		r := newRunner(t, t.TempDir()).withEnv("GITBRIDGE_EMBEDDED_GIT=0")

		r.mustRun("clone", bare, dest)

		clone := &testhelpers.GitRepo{Dir: dest}
		content, err := clone.ReadFile("test.txt")
		require.NoError(t, err)
		require.Equal(t, "1", content)
	})

	t.Run("fails for a missing source", func(t *testing.T) {
		t.Parallel()
		dest := filepath.Join(t.TempDir(), "app")
		r := newRunner(t, t.TempDir())

		_, err := r.run("clone", filepath.Join(t.TempDir(), "nope.git"), dest)
		require.Error(t, err)
	})
}
