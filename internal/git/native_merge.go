package git

import (
	"context"
	"fmt"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

// Merge merges branch into the current branch
func (b *nativeBackend) Merge(ctx context.Context, path, branch string, opts MergeOptions) error {
	_, err := b.runner(path).RunWithEnv(ctx, identityEnv(opts.Author), "merge", branch)
	if err != nil {
		return classify(path, "merge", fmt.Errorf("failed to merge %s: %w", branch, err))
	}
	return nil
}

// MergeAbort aborts an in-progress merge and restores the pre-merge state
func (b *nativeBackend) MergeAbort(ctx context.Context, path string) error {
	if !IsMergeInProgress(path) {
		return bridgeerrors.ErrNoMergeInProgress
	}
	if _, err := b.runner(path).Run(ctx, "merge", "--abort"); err != nil {
		return fmt.Errorf("merge abort failed: %w", err)
	}
	return nil
}

// Rebase replays the current branch onto the given ref
func (b *nativeBackend) Rebase(ctx context.Context, path, onto string) error {
	// The committer identity for replayed commits must not depend on ambient
	// configuration; replayed authors are preserved by git itself.
	_, err := b.runner(path).RunWithEnv(ctx, identityEnv(Signature{}), "rebase", onto)
	if err != nil {
		return classify(path, "rebase", fmt.Errorf("failed to rebase onto %s: %w", onto, err))
	}
	return nil
}

// RebaseAbort aborts an in-progress rebase and restores the original branch
func (b *nativeBackend) RebaseAbort(ctx context.Context, path string) error {
	if !IsRebaseInProgress(path) {
		return bridgeerrors.ErrNoRebaseInProgress
	}
	if _, err := b.runner(path).Run(ctx, "rebase", "--abort"); err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}

// RebaseContinue resumes a conflicted rebase after resolutions were staged
func (b *nativeBackend) RebaseContinue(ctx context.Context, path string) error {
	args := []string{"-c", "core.editor=true", "rebase", "--continue"}
	_, err := b.runner(path).RunWithEnv(ctx, identityEnv(Signature{}), args...)
	if err != nil {
		return classify(path, "rebase", fmt.Errorf("rebase continue failed: %w", err))
	}
	return nil
}

// ConflictedFiles returns the paths left unmerged by a conflicted merge or
// rebase
func (b *nativeBackend) ConflictedFiles(ctx context.Context, path string) ([]string, error) {
	lines, err := b.runner(path).RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicted files: %w", err)
	}
	return lines, nil
}
