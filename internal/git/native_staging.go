package git

import (
	"context"
	"fmt"
)

// StageAll stages every change including untracked files
func (b *nativeBackend) StageAll(ctx context.Context, path string) error {
	if _, err := b.runner(path).Run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage all changes: %w", err)
	}
	return nil
}

// StageFiles stages the given paths
func (b *nativeBackend) StageFiles(ctx context.Context, path string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	if _, err := b.runner(path).Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

// RemoveFiles removes the given paths from the index, leaving the worktree
// copies in place
func (b *nativeBackend) RemoveFiles(ctx context.Context, path string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"rm", "--cached", "--"}, files...)
	if _, err := b.runner(path).Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to remove files from index: %w", err)
	}
	return nil
}

// UnstageFiles resets the index entries for the given paths back to HEAD,
// or the whole index when no paths are given
func (b *nativeBackend) UnstageFiles(ctx context.Context, path string, files []string) error {
	args := []string{"reset", "-q", "HEAD"}
	if len(files) > 0 {
		args = append(args, "--")
		args = append(args, files...)
	}
	if _, err := b.runner(path).Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to unstage files: %w", err)
	}
	return nil
}
