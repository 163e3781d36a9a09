package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

// Checkout moves HEAD and the working tree to ref. A branch name stays on
// the branch; a commit id detaches HEAD.
func (b *nativeBackend) Checkout(ctx context.Context, path, ref string) error {
	if _, err := b.runner(path).Run(ctx, "checkout", ref); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}
	return nil
}

// branchExists reports whether a local branch ref is present
func (b *nativeBackend) branchExists(ctx context.Context, path, name string) bool {
	_, err := b.runner(path).Run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// CreateBranch creates a branch at startPoint, or at HEAD when startPoint
// is empty
func (b *nativeBackend) CreateBranch(ctx context.Context, path, name, startPoint string) error {
	args := []string{"branch", name}
	if startPoint != "" {
		args = append(args, startPoint)
	}
	if _, err := b.runner(path).Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// CreateTrackingBranch creates a local branch at remoteRef with upstream
// tracking configured
func (b *nativeBackend) CreateTrackingBranch(ctx context.Context, path, name, remoteRef string) error {
	if _, err := b.runner(path).Run(ctx, "branch", "--track", name, remoteRef); err != nil {
		return fmt.Errorf("failed to create branch %s tracking %s: %w", name, remoteRef, err)
	}
	return nil
}

// RenameBranch renames a local branch
func (b *nativeBackend) RenameBranch(ctx context.Context, path, oldName, newName string) error {
	if !b.branchExists(ctx, path, oldName) {
		return bridgeerrors.NewBranchNotFoundError(oldName)
	}
	if _, err := b.runner(path).Run(ctx, "branch", "-m", oldName, newName); err != nil {
		return fmt.Errorf("failed to rename branch %s to %s: %w", oldName, newName, err)
	}
	return nil
}

// DeleteBranch deletes a local branch regardless of its merge state
func (b *nativeBackend) DeleteBranch(ctx context.Context, path, name string) error {
	if !b.branchExists(ctx, path, name) {
		return bridgeerrors.NewBranchNotFoundError(name)
	}
	if _, err := b.runner(path).Run(ctx, "branch", "-D", name); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", name, err)
	}
	return nil
}

// ListLocalBranches returns the short names of all local branches
func (b *nativeBackend) ListLocalBranches(ctx context.Context, path string) ([]string, error) {
	lines, err := b.runner(path).RunLines(ctx, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list local branches: %w", err)
	}
	// A detached HEAD shows up as "(HEAD detached at ...)".
	names := lo.Filter(lines, func(line string, _ int) bool {
		return line != "" && !strings.HasPrefix(line, "(")
	})
	return names, nil
}

// ListRemoteBranches returns remote branch names with the remote prefix
// stripped, excluding the symbolic HEAD entry
func (b *nativeBackend) ListRemoteBranches(ctx context.Context, path, remote string) ([]string, error) {
	remote = remoteOrDefault(remote)
	lines, err := b.runner(path).RunLines(ctx, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}

	prefix := remote + "/"
	names := lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		name, ok := strings.CutPrefix(line, prefix)
		if !ok || name == "" || name == "HEAD" {
			return "", false
		}
		return name, true
	})
	return names, nil
}
