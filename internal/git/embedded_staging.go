package git

import (
	"context"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
)

// StageAll stages every change in the worktree, including untracked files
// and deletions
func (b *embeddedBackend) StageAll(ctx context.Context, path string) error {
	_, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// StageFiles stages the given paths. A deleted path records the deletion.
func (b *embeddedBackend) StageFiles(ctx context.Context, path string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	_, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	for _, f := range files {
		if _, err := wt.Add(f); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f, err)
		}
	}
	return nil
}

// RemoveFiles removes the given paths from the index, leaving the working
// tree copies in place
func (b *embeddedBackend) RemoveFiles(ctx context.Context, path string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	repo, err := b.open(path)
	if err != nil {
		return err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	idx, err := repo.Storer.Index()
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	drop := make(map[string]struct{}, len(files))
	for _, f := range files {
		drop[f] = struct{}{}
	}

	kept := make([]*index.Entry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		if _, ok := drop[e.Name]; ok {
			continue
		}
		kept = append(kept, e)
	}
	idx.Entries = kept

	if err := repo.Storer.SetIndex(idx); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// UnstageFiles resets the given paths in the index back to HEAD. With no
// paths the whole index is reset, leaving the working tree untouched.
func (b *embeddedBackend) UnstageFiles(ctx context.Context, path string, files []string) error {
	repo, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	if len(files) > 0 {
		if err := wt.Restore(&gogit.RestoreOptions{Staged: true, Files: files}); err != nil {
			return fmt.Errorf("failed to unstage files: %w", err)
		}
		return nil
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if err := wt.Reset(&gogit.ResetOptions{Mode: gogit.MixedReset, Commit: head.Hash()}); err != nil {
		return fmt.Errorf("failed to unstage changes: %w", err)
	}
	return nil
}
