package engine

import (
	"context"
	"fmt"

	"gitbridge.dev/gitbridge/internal/config"
	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
	"gitbridge.dev/gitbridge/internal/git"
)

// Init creates an empty repository at the app path. The initial branch comes
// from opts, falling back to the configured default.
func (e *Engine) Init(ctx context.Context, app App, opts git.InitOptions) error {
	return e.withRepo(ctx, app, "init", func(backend git.Backend, settings config.Settings) error {
		if opts.DefaultBranch == "" {
			opts.DefaultBranch = settings.Branch()
		}
		return backend.Init(ctx, app.Path, opts)
	})
}

// Clone materializes url at the app path.
func (e *Engine) Clone(ctx context.Context, app App, url string, opts git.CloneOptions) error {
	return e.withRepo(ctx, app, "clone", func(backend git.Backend, _ config.Settings) error {
		return backend.Clone(ctx, url, app.Path, opts)
	})
}

// Commit records staged changes and returns the new commit id. The author
// identity always comes from settings, never from ambient git configuration.
//
// Committing while a merge or rebase is unfinished fails as a conflict:
// recording a half-merged tree as ordinary work silently destroys the
// operation's bookkeeping.
func (e *Engine) Commit(ctx context.Context, app App, message string, amend bool) (string, error) {
	var oid string
	err := e.withRepo(ctx, app, "commit", func(backend git.Backend, settings config.Settings) error {
		if state := git.ProbeControlState(app.Path); state != git.StateClean {
			files, _ := backend.ConflictedFiles(ctx, app.Path)
			return bridgeerrors.NewConflictError("commit", files,
				bridgeerrors.NewOperationInProgressError(stateWord(state), "commit"))
		}

		var err error
		oid, err = backend.Commit(ctx, app.Path, git.CommitOptions{
			Message: message,
			Amend:   amend,
			Author:  settings.Author(),
		})
		return err
	})
	return oid, err
}

// Checkout moves HEAD and the working tree to ref. A branch name stays
// attached; a commit id detaches HEAD.
func (e *Engine) Checkout(ctx context.Context, app App, ref string) error {
	return e.withRepo(ctx, app, "checkout", func(backend git.Backend, _ config.Settings) error {
		return backend.Checkout(ctx, app.Path, ref)
	})
}

// CreateBranch creates a branch at startPoint, or at HEAD when startPoint is
// empty. The embedded backend only supports branching from HEAD.
func (e *Engine) CreateBranch(ctx context.Context, app App, name, startPoint string) error {
	return e.withRepo(ctx, app, "create-branch", func(backend git.Backend, _ config.Settings) error {
		return backend.CreateBranch(ctx, app.Path, name, startPoint)
	})
}

// RenameBranch renames a local branch.
func (e *Engine) RenameBranch(ctx context.Context, app App, oldName, newName string) error {
	return e.withRepo(ctx, app, "rename-branch", func(backend git.Backend, _ config.Settings) error {
		return backend.RenameBranch(ctx, app.Path, oldName, newName)
	})
}

// DeleteBranch deletes a local branch regardless of its merge state.
func (e *Engine) DeleteBranch(ctx context.Context, app App, name string) error {
	return e.withRepo(ctx, app, "delete-branch", func(backend git.Backend, _ config.Settings) error {
		return backend.DeleteBranch(ctx, app.Path, name)
	})
}

// Add stages the given files, or every change in the working tree when no
// files are named.
func (e *Engine) Add(ctx context.Context, app App, files ...string) error {
	return e.withRepo(ctx, app, "add", func(backend git.Backend, _ config.Settings) error {
		if len(files) == 0 {
			return backend.StageAll(ctx, app.Path)
		}
		return backend.StageFiles(ctx, app.Path, files)
	})
}

// Remove drops the given files from the index, leaving working tree copies in
// place.
func (e *Engine) Remove(ctx context.Context, app App, files ...string) error {
	return e.withRepo(ctx, app, "remove", func(backend git.Backend, _ config.Settings) error {
		return backend.RemoveFiles(ctx, app.Path, files)
	})
}

// Unstage moves the given files out of the staging area, or everything when
// no files are named.
func (e *Engine) Unstage(ctx context.Context, app App, files ...string) error {
	return e.withRepo(ctx, app, "unstage", func(backend git.Backend, _ config.Settings) error {
		return backend.UnstageFiles(ctx, app.Path, files)
	})
}

// StageRevertToCommit stages a tree equivalent to target without moving HEAD,
// so the next commit records the revert. It requires a clean working tree;
// mixing a revert with uncommitted work would silently discard that work.
func (e *Engine) StageRevertToCommit(ctx context.Context, app App, target string) error {
	return e.withRepo(ctx, app, "revert", func(backend git.Backend, _ config.Settings) error {
		clean, err := backend.IsClean(ctx, app.Path)
		if err != nil {
			return err
		}
		if !clean {
			return fmt.Errorf("cannot revert to %s: %w", target, bridgeerrors.ErrDirtyWorktree)
		}
		return backend.RevertToCommit(ctx, app.Path, target)
	})
}

// SetRemoteURL points remote at url, creating the remote if needed.
func (e *Engine) SetRemoteURL(ctx context.Context, app App, remote, url string) error {
	return e.withRepo(ctx, app, "set-remote-url", func(backend git.Backend, _ config.Settings) error {
		return backend.SetRemoteURL(ctx, app.Path, remote, url)
	})
}

// Fetch updates remote-tracking refs from the remote.
func (e *Engine) Fetch(ctx context.Context, app App, opts git.FetchOptions) error {
	return e.withRepo(ctx, app, "fetch", func(backend git.Backend, _ config.Settings) error {
		return backend.Fetch(ctx, app.Path, opts)
	})
}

// Pull fetches and integrates a branch from the remote. It refuses while a
// merge or rebase is unfinished.
func (e *Engine) Pull(ctx context.Context, app App, opts git.PullOptions) error {
	return e.withRepo(ctx, app, "pull", func(backend git.Backend, settings config.Settings) error {
		if err := guardNoOperationInProgress(app, "pull"); err != nil {
			return err
		}
		if opts.Author.IsZero() {
			opts.Author = settings.Author()
		}
		return backend.Pull(ctx, app.Path, opts)
	})
}

// Push sends a branch to the remote. ForceWithLease on the embedded backend
// fails before any network traffic; it is never downgraded to a plain force.
func (e *Engine) Push(ctx context.Context, app App, opts git.PushOptions) error {
	return e.withRepo(ctx, app, "push", func(backend git.Backend, _ config.Settings) error {
		return backend.Push(ctx, app.Path, opts)
	})
}

// Merge integrates branch into the current branch. It refuses while a merge
// or rebase is already unfinished.
func (e *Engine) Merge(ctx context.Context, app App, branch string) error {
	return e.withRepo(ctx, app, "merge", func(backend git.Backend, settings config.Settings) error {
		if err := guardNoOperationInProgress(app, "merge"); err != nil {
			return err
		}
		return backend.Merge(ctx, app.Path, branch, git.MergeOptions{Author: settings.Author()})
	})
}

// MergeAbort abandons an unfinished merge and restores the pre-merge state.
func (e *Engine) MergeAbort(ctx context.Context, app App) error {
	return e.withRepo(ctx, app, "merge-abort", func(backend git.Backend, _ config.Settings) error {
		return backend.MergeAbort(ctx, app.Path)
	})
}

// Rebase replays the current branch onto another branch. It refuses while a
// merge or rebase is already unfinished.
func (e *Engine) Rebase(ctx context.Context, app App, onto string) error {
	return e.withRepo(ctx, app, "rebase", func(backend git.Backend, _ config.Settings) error {
		if err := guardNoOperationInProgress(app, "rebase"); err != nil {
			return err
		}
		return backend.Rebase(ctx, app.Path, onto)
	})
}

// RebaseContinue resumes a conflicted rebase after the conflicts were staged.
func (e *Engine) RebaseContinue(ctx context.Context, app App) error {
	return e.withRepo(ctx, app, "rebase-continue", func(backend git.Backend, _ config.Settings) error {
		return backend.RebaseContinue(ctx, app.Path)
	})
}

// RebaseAbort abandons an unfinished rebase and restores the pre-rebase state.
func (e *Engine) RebaseAbort(ctx context.Context, app App) error {
	return e.withRepo(ctx, app, "rebase-abort", func(backend git.Backend, _ config.Settings) error {
		return backend.RebaseAbort(ctx, app.Path)
	})
}
