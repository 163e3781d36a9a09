package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

// Checkout switches the worktree to a branch, or detaches HEAD when ref is
// not a local branch name
func (b *embeddedBackend) Checkout(ctx context.Context, path, ref string) error {
	repo, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	branchRef := plumbing.NewBranchReferenceName(ref)
	goGitMu.Lock()
	_, branchErr := repo.Reference(branchRef, true)
	goGitMu.Unlock()

	opts := &gogit.CheckoutOptions{Branch: branchRef}
	if branchErr != nil {
		hash, err := resolveRefHash(repo, ref)
		if err != nil {
			return fmt.Errorf("failed to checkout %s: %w", ref, err)
		}
		opts = &gogit.CheckoutOptions{Hash: hash}
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	if err := wt.Checkout(opts); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}
	return nil
}

// CreateBranch creates a local branch at HEAD. Starting from any other ref
// is a native-only capability.
func (b *embeddedBackend) CreateBranch(ctx context.Context, path, name, startPoint string) error {
	if startPoint != "" && startPoint != "HEAD" {
		return bridgeerrors.NewUnsupportedCapabilityError(KindEmbedded.String(), "creating a branch from a ref other than HEAD")
	}

	repo, err := b.open(path)
	if err != nil {
		return err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	refName := plumbing.NewBranchReferenceName(name)
	if _, err := repo.Reference(refName, false); err == nil {
		return fmt.Errorf("failed to create branch %s: branch already exists", name)
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(refName, head.Hash())); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// CreateTrackingBranch is a native-only capability; go-git cannot set up a
// local branch tracking a remote ref in one step.
func (b *embeddedBackend) CreateTrackingBranch(ctx context.Context, path, name, remoteRef string) error {
	return bridgeerrors.NewUnsupportedCapabilityError(KindEmbedded.String(), "creating a tracking branch")
}

// RenameBranch renames a local branch, keeping HEAD attached if it pointed
// at the old name
func (b *embeddedBackend) RenameBranch(ctx context.Context, path, oldName, newName string) error {
	repo, err := b.open(path)
	if err != nil {
		return err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	oldRef := plumbing.NewBranchReferenceName(oldName)
	ref, err := repo.Reference(oldRef, false)
	if err != nil {
		return bridgeerrors.NewBranchNotFoundError(oldName)
	}

	newRef := plumbing.NewBranchReferenceName(newName)
	if _, err := repo.Reference(newRef, false); err == nil {
		return fmt.Errorf("failed to rename branch %s to %s: branch already exists", oldName, newName)
	}

	if err := repo.Storer.SetReference(plumbing.NewHashReference(newRef, ref.Hash())); err != nil {
		return fmt.Errorf("failed to rename branch %s to %s: %w", oldName, newName, err)
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err == nil && head.Type() == plumbing.SymbolicReference && head.Target() == oldRef {
		if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, newRef)); err != nil {
			return fmt.Errorf("failed to move HEAD to %s: %w", newName, err)
		}
	}

	if err := repo.Storer.RemoveReference(oldRef); err != nil {
		return fmt.Errorf("failed to remove old branch ref %s: %w", oldName, err)
	}
	return nil
}

// DeleteBranch force-deletes a local branch regardless of merge state
func (b *embeddedBackend) DeleteBranch(ctx context.Context, path, name string) error {
	repo, err := b.open(path)
	if err != nil {
		return err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	refName := plumbing.NewBranchReferenceName(name)
	if _, err := repo.Reference(refName, false); err != nil {
		return bridgeerrors.NewBranchNotFoundError(name)
	}
	if head, err := repo.Reference(plumbing.HEAD, false); err == nil &&
		head.Type() == plumbing.SymbolicReference && head.Target() == refName {
		return fmt.Errorf("failed to delete branch %s: branch is checked out", name)
	}
	if err := repo.Storer.RemoveReference(refName); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", name, err)
	}
	// Drop any branch config left behind; a missing section is fine.
	if err := repo.DeleteBranch(name); err != nil && !errors.Is(err, gogit.ErrBranchNotFound) {
		return fmt.Errorf("failed to delete branch config for %s: %w", name, err)
	}
	return nil
}

// ListLocalBranches returns local branch names sorted lexically
func (b *embeddedBackend) ListLocalBranches(ctx context.Context, path string) ([]string, error) {
	repo, err := b.open(path)
	if err != nil {
		return nil, err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	iter, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list local branches: %w", err)
	}
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// ListRemoteBranches returns branch names known for the remote, without the
// remote prefix and without the symbolic HEAD entry
func (b *embeddedBackend) ListRemoteBranches(ctx context.Context, path, remote string) ([]string, error) {
	repo, err := b.open(path)
	if err != nil {
		return nil, err
	}

	remote = remoteOrDefault(remote)
	prefix := "refs/remotes/" + remote + "/"

	goGitMu.Lock()
	defer goGitMu.Unlock()

	iter, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		short, ok := strings.CutPrefix(string(ref.Name()), prefix)
		if !ok || short == "HEAD" {
			return nil
		}
		names = append(names, short)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate remote branches: %w", err)
	}
	sort.Strings(names)
	return names, nil
}
