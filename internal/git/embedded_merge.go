package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

// Merge merges branch into the current branch. Only fast-forward merges are
// possible in-process; divergent histories are reported as a conflict so
// callers can retry with the native backend or reconcile by hand.
func (b *embeddedBackend) Merge(ctx context.Context, path, branch string, opts MergeOptions) error {
	repo, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	hash, err := resolveRefHash(repo, branch)
	if err != nil {
		return bridgeerrors.NewBranchNotFoundError(branch)
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	// Already up to date when the target is behind HEAD.
	if ok, err := isAncestor(repo, hash, head.Hash()); err == nil && ok {
		return nil
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), hash)
	err = repo.Merge(*ref, gogit.MergeOptions{Strategy: gogit.FastForwardMerge})
	if err != nil {
		if errors.Is(err, gogit.ErrFastForwardMergeNotPossible) {
			return bridgeerrors.NewConflictError("merge", nil, err)
		}
		return classify(path, "merge", fmt.Errorf("failed to merge %s: %w", branch, err))
	}

	// Bring the working tree up to the advanced HEAD.
	if err := wt.Reset(&gogit.ResetOptions{Mode: gogit.MergeReset, Commit: hash}); err != nil {
		return fmt.Errorf("failed to update worktree after merge: %w", err)
	}
	return nil
}

// MergeAbort restores the pre-merge state recorded in ORIG_HEAD and clears
// the merge markers, without invoking an executable
func (b *embeddedBackend) MergeAbort(ctx context.Context, path string) error {
	if !IsMergeInProgress(path) {
		return bridgeerrors.ErrNoMergeInProgress
	}

	gitDir, err := ResolveControlDir(path)
	if err != nil {
		return err
	}

	_, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	origData, err := os.ReadFile(filepath.Join(gitDir, "ORIG_HEAD"))
	if err != nil {
		return fmt.Errorf("failed to read pre-merge HEAD: %w", err)
	}
	orig := plumbing.NewHash(strings.TrimSpace(string(origData)))

	goGitMu.Lock()
	defer goGitMu.Unlock()

	if err := wt.Reset(&gogit.ResetOptions{Mode: gogit.HardReset, Commit: orig}); err != nil {
		return fmt.Errorf("failed to restore pre-merge state: %w", err)
	}
	for _, marker := range []string{"MERGE_HEAD", "MERGE_MSG", "MERGE_MODE", "AUTO_MERGE"} {
		if err := os.Remove(filepath.Join(gitDir, marker)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear merge marker %s: %w", marker, err)
		}
	}
	return nil
}

// Rebase moves the current branch onto the target. In-process only the
// degenerate cases are possible: nothing to do when the branch already
// contains the target, a fast-forward when the branch has no commits of its
// own. Replaying divergent commits is a native-only capability.
func (b *embeddedBackend) Rebase(ctx context.Context, path, onto string) error {
	repo, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	ontoHash, err := resolveRefHash(repo, onto)
	if err != nil {
		return bridgeerrors.NewBranchNotFoundError(onto)
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return bridgeerrors.ErrNotOnBranch
	}

	if ok, err := isAncestor(repo, ontoHash, head.Hash()); err == nil && ok {
		return nil
	}

	if ok, err := isAncestor(repo, head.Hash(), ontoHash); err == nil && ok {
		status, err := wt.Status()
		if err != nil {
			return fmt.Errorf("failed to read status: %w", err)
		}
		if !status.IsClean() {
			return bridgeerrors.ErrDirtyWorktree
		}
		if err := repo.Storer.SetReference(plumbing.NewHashReference(head.Name(), ontoHash)); err != nil {
			return fmt.Errorf("failed to advance %s: %w", head.Name().Short(), err)
		}
		if err := wt.Reset(&gogit.ResetOptions{Mode: gogit.HardReset, Commit: ontoHash}); err != nil {
			return fmt.Errorf("failed to update worktree after rebase: %w", err)
		}
		return nil
	}

	return bridgeerrors.NewUnsupportedCapabilityError(KindEmbedded.String(), "rebasing commits onto a diverged base")
}

// RebaseAbort restores the branch recorded in the rebase state directory to
// its pre-rebase commit and clears the state, without invoking an executable
func (b *embeddedBackend) RebaseAbort(ctx context.Context, path string) error {
	if !IsRebaseInProgress(path) {
		return bridgeerrors.ErrNoRebaseInProgress
	}

	gitDir, err := ResolveControlDir(path)
	if err != nil {
		return err
	}

	repo, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	stateDir := ""
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(gitDir, dir)); err == nil {
			stateDir = dir
			break
		}
	}
	if stateDir == "" {
		// Only a stale REBASE_HEAD marker is present.
		if err := os.Remove(filepath.Join(gitDir, "REBASE_HEAD")); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear rebase marker: %w", err)
		}
		return nil
	}

	origData, err := os.ReadFile(filepath.Join(gitDir, stateDir, "orig-head"))
	if err != nil {
		return fmt.Errorf("failed to read pre-rebase HEAD: %w", err)
	}
	orig := plumbing.NewHash(strings.TrimSpace(string(origData)))

	goGitMu.Lock()
	defer goGitMu.Unlock()

	// Reattach HEAD to the branch being rebased before restoring it.
	headNameData, headErr := os.ReadFile(filepath.Join(gitDir, stateDir, "head-name"))
	if headErr == nil {
		branchRef := plumbing.ReferenceName(strings.TrimSpace(string(headNameData)))
		if branchRef.IsBranch() {
			if err := repo.Storer.SetReference(plumbing.NewHashReference(branchRef, orig)); err != nil {
				return fmt.Errorf("failed to restore branch %s: %w", branchRef.Short(), err)
			}
			if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branchRef)); err != nil {
				return fmt.Errorf("failed to reattach HEAD to %s: %w", branchRef.Short(), err)
			}
		}
	}

	if err := wt.Reset(&gogit.ResetOptions{Mode: gogit.HardReset, Commit: orig}); err != nil {
		return fmt.Errorf("failed to restore pre-rebase state: %w", err)
	}
	if err := os.RemoveAll(filepath.Join(gitDir, stateDir)); err != nil {
		return fmt.Errorf("failed to clear rebase state: %w", err)
	}
	if err := os.Remove(filepath.Join(gitDir, "REBASE_HEAD")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear rebase marker: %w", err)
	}
	return nil
}

// RebaseContinue is a native-only capability; go-git cannot resume a rebase
// left by the git executable
func (b *embeddedBackend) RebaseContinue(ctx context.Context, path string) error {
	return bridgeerrors.NewUnsupportedCapabilityError(KindEmbedded.String(), "continuing a rebase")
}

// ConflictedFiles lists paths with unmerged index entries
func (b *embeddedBackend) ConflictedFiles(ctx context.Context, path string) ([]string, error) {
	repo, err := b.open(path)
	if err != nil {
		return nil, err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	seen := make(map[string]struct{})
	var files []string
	for _, e := range idx.Entries {
		if e.Stage == index.Merged {
			continue
		}
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		files = append(files, e.Name)
	}
	sort.Strings(files)
	return files, nil
}

// isAncestor reports whether ancestor is reachable from descendant. Callers
// hold goGitMu.
func isAncestor(repo *gogit.Repository, ancestor, descendant plumbing.Hash) (bool, error) {
	a, err := repo.CommitObject(ancestor)
	if err != nil {
		return false, err
	}
	d, err := repo.CommitObject(descendant)
	if err != nil {
		return false, err
	}
	return a.IsAncestor(d)
}
