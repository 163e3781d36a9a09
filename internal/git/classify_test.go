package git

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/stretchr/testify/require"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

func TestClassifyOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		output   string
		expected bridgeerrors.Class
	}{
		{
			name:     "merge conflict",
			output:   "CONFLICT (content): Merge conflict in app/page.tsx\nAutomatic merge failed; fix conflicts and then commit the result.",
			expected: bridgeerrors.ClassConflict,
		},
		{
			name:     "unmerged files",
			output:   "error: Pulling is not possible because you have unmerged files.",
			expected: bridgeerrors.ClassConflict,
		},
		{
			name:     "missing remote ref",
			output:   "fatal: couldn't find remote ref refs/heads/feature",
			expected: bridgeerrors.ClassMissingRemoteRef,
		},
		{
			name:     "empty remote",
			output:   "remote repository is empty",
			expected: bridgeerrors.ClassMissingRemoteRef,
		},
		{
			name:     "authentication failed",
			output:   "fatal: Authentication failed for 'https://example.com/org/app.git/'",
			expected: bridgeerrors.ClassUnauthorized,
		},
		{
			name:     "http 403",
			output:   "remote: Permission to org/app.git denied.\nfatal: unable to access 'https://example.com/org/app.git/': The requested URL returned error: 403",
			expected: bridgeerrors.ClassUnauthorized,
		},
		{
			name:     "host resolution failure",
			output:   "fatal: unable to access 'https://example.invalid/': Could not resolve host: example.invalid",
			expected: bridgeerrors.ClassNetworkUnreachable,
		},
		{
			name:     "connection refused",
			output:   "fatal: unable to connect: Connection refused",
			expected: bridgeerrors.ClassNetworkUnreachable,
		},
		{
			name:     "dial error from in-process transport",
			output:   "dial tcp 192.0.2.1:443: i/o timeout",
			expected: bridgeerrors.ClassNetworkUnreachable,
		},
		{
			name:     "unrelated failure",
			output:   "fatal: pathspec 'nope.txt' did not match any files",
			expected: bridgeerrors.ClassUnclassified,
		},
		{
			name:     "empty output",
			output:   "",
			expected: bridgeerrors.ClassUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, ClassifyOutput(tt.output))
		})
	}
}

func TestClassifyOutputIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	require.Equal(t, bridgeerrors.ClassConflict, ClassifyOutput("AUTOMATIC MERGE FAILED"))
	require.Equal(t, bridgeerrors.ClassUnauthorized, ClassifyOutput("Bad Credentials"))
}

func TestClassifyNil(t *testing.T) {
	t.Parallel()
	require.NoError(t, classify(t.TempDir(), "push", nil))
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	t.Parallel()

	original := bridgeerrors.NewUnauthorizedError("origin", fmt.Errorf("401"))
	result := classify(t.TempDir(), "push", original)
	require.Same(t, error(original), result)
}

func TestClassifyPrefersProberOverMessage(t *testing.T) {
	// A merge marker on disk makes the failure a conflict even when the
	// message suggests another class.
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "MERGE_HEAD"), []byte("x\n"), 0o644))

	err := classify(dir, "commit", fmt.Errorf("exit status 128: authentication failed"))
	require.ErrorIs(t, err, bridgeerrors.ErrConflict)

	var conflict *bridgeerrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "commit", conflict.Op)
}

func TestClassifyTransportErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	err := classify(dir, "push", fmt.Errorf("failed to push: %w", transport.ErrAuthenticationRequired))
	require.ErrorIs(t, err, bridgeerrors.ErrUnauthorized)

	err = classify(dir, "fetch", fmt.Errorf("failed to fetch: %w", transport.ErrEmptyRemoteRepository))
	require.ErrorIs(t, err, bridgeerrors.ErrMissingRemoteRef)
}

func TestClassifyBySubstring(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	err := classify(dir, "pull", fmt.Errorf("fatal: couldn't find remote ref main"))
	require.ErrorIs(t, err, bridgeerrors.ErrMissingRemoteRef)

	err = classify(dir, "fetch", fmt.Errorf("Could not resolve host: example.invalid"))
	require.ErrorIs(t, err, bridgeerrors.ErrNetworkUnreachable)

	err = classify(dir, "merge", fmt.Errorf("Automatic merge failed; fix conflicts"))
	require.ErrorIs(t, err, bridgeerrors.ErrConflict)
}

func TestClassifyLeavesUnknownErrorsAlone(t *testing.T) {
	t.Parallel()

	original := fmt.Errorf("some obscure failure")
	result := classify(t.TempDir(), "commit", original)
	require.Same(t, original, result)
	require.Equal(t, bridgeerrors.ClassUnclassified, bridgeerrors.ClassOf(result))
}
