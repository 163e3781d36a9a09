package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitbridge.dev/gitbridge/testhelpers"
)

func TestCommitCommand(t *testing.T) {
	t.Run("records staged changes", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		err := scene.Repo.CreateChange("two", "", false)
		require.NoError(t, err)

		output := r.mustRun("commit", "-m", "Add payment form")
		require.Contains(t, output, "Committed")

		messages, err := scene.Repo.ListCurrentBranchCommitMessages()
		require.NoError(t, err)
		require.Contains(t, messages[0], "Add payment form")
	})

	t.Run("reads the message from stdin", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		err := scene.Repo.CreateChange("two", "", false)
		require.NoError(t, err)

		cmd := r.command("commit")
		cmd.Stdin = strings.NewReader("Piped message\n")
		output, err := cmd.CombinedOutput()
		require.NoError(t, err, "commit failed: %s", string(output))

		messages, err := scene.Repo.ListCurrentBranchCommitMessages()
		require.NoError(t, err)
		require.Contains(t, messages[0], "Piped message")
	})

	t.Run("fails without a message", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		err := scene.Repo.CreateChange("two", "", false)
		require.NoError(t, err)

		output, err := r.run("commit")
		require.Error(t, err)
		require.Contains(t, output, "commit message required")
	})

	t.Run("amend replaces the previous commit", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		err := scene.Repo.CreateChange("two", "", false)
		require.NoError(t, err)
		r.mustRun("commit", "-m", "Second")

		err = scene.Repo.CreateChange("three", "extra", false)
		require.NoError(t, err)
		r.mustRun("commit", "--amend", "-m", "Second, now with extras")

		messages, err := scene.Repo.ListCurrentBranchCommitMessages()
		require.NoError(t, err)
		require.Len(t, messages, 2)
		require.Contains(t, messages[0], "Second, now with extras")
	})

	t.Run("author comes from settings, not git config", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		r := newRunner(t, scene.Dir)

		r.mustRun("config", "--author-name", "Jane Doe", "--author-email", "jane@example.com")

		err := scene.Repo.CreateChange("two", "", false)
		require.NoError(t, err)
		r.mustRun("commit", "-m", "By Jane")

		author, err := scene.Repo.GetLastAuthor()
		require.NoError(t, err)
		require.Equal(t, "Jane Doe <jane@example.com>", author)
	})

	t.Run("refuses while a merge is unfinished", func(t *testing.T) {
		t.Parallel()
		scene := testhelpers.NewScene(t, nil)
		r := newRunner(t, scene.Dir)

		require.NoError(t, scene.Repo.CreateChangeAndCommit("base", ""))
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("other"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("theirs", ""))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("ours", ""))
		_ = scene.Repo.RunGitCommand("merge", "other")
		require.True(t, scene.Repo.MergeInProgress())

		output, err := r.run("commit", "-m", "should not land")
		require.Error(t, err)
		require.Contains(t, output, "merge in progress")
	})
}
