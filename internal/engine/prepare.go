package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"gitbridge.dev/gitbridge/internal/config"
	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
	"gitbridge.dev/gitbridge/internal/git"
)

// PrepareOptions configures PrepareBranch.
type PrepareOptions struct {
	// Branch is the target branch name. It is sanitized before use and
	// defaults to the configured default branch when empty.
	Branch string

	// RemoteURL, when non-empty, is pointed at by the remote before a
	// best-effort fetch. Connect-to-remote flows set it; local flows leave
	// it empty.
	RemoteURL string

	// Remote names the remote involved; origin when empty.
	Remote string

	// Token authenticates the fetch triggered by RemoteURL.
	Token string
}

// PrepareBranch ensures the target branch exists locally and is checked out,
// creating it from the remote branch of the same name or from HEAD as needed.
// It returns the effective branch name after sanitization.
//
// The decision sequence, run under the repository lock:
//  1. When a remote URL is supplied, point the remote at it and fetch.
//     Fetch failures are tolerated; a brand-new remote legitimately has
//     nothing to serve yet.
//  2. Refuse to proceed on a dirty working tree rather than discard work.
//  3. Check the branch out directly when it already exists locally.
//  4. Otherwise create it tracking the remote branch when one exists.
//  5. Otherwise create it fresh from HEAD and check it out.
func (e *Engine) PrepareBranch(ctx context.Context, app App, opts PrepareOptions) (string, error) {
	branch := git.SanitizeBranchName(opts.Branch)
	err := e.withRepo(ctx, app, "prepare-branch", func(backend git.Backend, settings config.Settings) error {
		if branch == "" {
			branch = settings.Branch()
		}
		return e.prepareBranch(ctx, app, backend, branch, opts)
	})
	if err != nil {
		return "", err
	}
	return branch, nil
}

func (e *Engine) prepareBranch(ctx context.Context, app App, backend git.Backend, branch string, opts PrepareOptions) error {
	remote := opts.Remote
	if remote == "" {
		remote = git.DefaultRemote
	}

	if opts.RemoteURL != "" {
		if err := backend.SetRemoteURL(ctx, app.Path, remote, opts.RemoteURL); err != nil {
			return fmt.Errorf("failed to set %s url while preparing branch %s: %w", remote, branch, err)
		}
		// Failure here only means the remote-branch check below sees fewer
		// branches; the flow continues against local state.
		if err := backend.Fetch(ctx, app.Path, git.FetchOptions{Remote: remote, Token: opts.Token}); err != nil {
			e.logger.Debug("fetch during branch preparation failed",
				zap.String("app", app.LockKey()),
				zap.String("remote", remote),
				zap.Error(err),
			)
		}
	}

	clean, err := backend.IsClean(ctx, app.Path)
	if err != nil {
		return fmt.Errorf("failed to check working tree while preparing branch %s: %w", branch, err)
	}
	if !clean {
		return fmt.Errorf("cannot prepare branch %s: %w", branch, bridgeerrors.ErrDirtyWorktree)
	}

	locals, err := backend.ListLocalBranches(ctx, app.Path)
	if err != nil {
		return fmt.Errorf("failed to list branches while preparing %s: %w", branch, err)
	}
	if lo.Contains(locals, branch) {
		if err := backend.Checkout(ctx, app.Path, branch); err != nil {
			return fmt.Errorf("failed to checkout existing branch %s: %w", branch, err)
		}
		return nil
	}

	if remoteHasBranch(ctx, backend, app.Path, remote, branch) {
		return e.checkoutTracking(ctx, app, backend, remote, branch)
	}

	if err := backend.CreateBranch(ctx, app.Path, branch, ""); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	if err := backend.Checkout(ctx, app.Path, branch); err != nil {
		return fmt.Errorf("failed to checkout new branch %s: %w", branch, err)
	}
	return nil
}

// remoteHasBranch reports whether remote already serves branch. Any listing
// failure, most commonly because no remote is configured at all, counts as
// absence.
func remoteHasBranch(ctx context.Context, backend git.Backend, path, remote, branch string) bool {
	if _, err := backend.RemoteURL(ctx, path, remote); err != nil {
		return false
	}
	remotes, err := backend.ListRemoteBranches(ctx, path, remote)
	if err != nil {
		return false
	}
	return lo.Contains(remotes, branch)
}

// checkoutTracking creates branch tracking remote/branch and checks it out.
//
// When the backend cannot create a tracking branch directly, it falls back to
// resolving the remote tip, detaching onto it, branching there, and checking
// the new branch out. Any failure inside that sequence restores the
// previously checked-out branch so the repository is never left on a
// detached HEAD.
func (e *Engine) checkoutTracking(ctx context.Context, app App, backend git.Backend, remote, branch string) error {
	remoteRef := remote + "/" + branch

	err := backend.CreateTrackingBranch(ctx, app.Path, branch, remoteRef)
	if err == nil {
		if err := backend.Checkout(ctx, app.Path, branch); err != nil {
			return fmt.Errorf("failed to checkout tracking branch %s: %w", branch, err)
		}
		return nil
	}
	if !errors.Is(err, bridgeerrors.ErrUnsupportedCapability) {
		return fmt.Errorf("failed to create branch %s tracking %s: %w", branch, remoteRef, err)
	}

	// Recorded before detaching; empty when HEAD is already detached or the
	// branch is unborn, in which case there is nothing to restore.
	previous, _ := backend.CurrentBranch(ctx, app.Path)

	rollback := func() {
		if previous == "" {
			return
		}
		if rbErr := backend.Checkout(ctx, app.Path, previous); rbErr != nil {
			e.logger.Warn("failed to restore branch after tracking fallback",
				zap.String("app", app.LockKey()),
				zap.String("branch", previous),
				zap.Error(rbErr),
			)
		}
	}

	oid, err := backend.ResolveRef(ctx, app.Path, remoteRef)
	if err != nil {
		return fmt.Errorf("failed to resolve %s while preparing branch %s: %w", remoteRef, branch, err)
	}
	if err := backend.Checkout(ctx, app.Path, oid); err != nil {
		return fmt.Errorf("failed to checkout %s while preparing branch %s: %w", remoteRef, branch, err)
	}
	if err := backend.CreateBranch(ctx, app.Path, branch, ""); err != nil {
		rollback()
		return fmt.Errorf("failed to create branch %s at %s: %w", branch, remoteRef, err)
	}
	if err := backend.Checkout(ctx, app.Path, branch); err != nil {
		rollback()
		return fmt.Errorf("failed to checkout branch %s: %w", branch, err)
	}
	return nil
}
