package engine

import (
	"context"

	"gitbridge.dev/gitbridge/internal/git"
)

// Read operations dispatch without the repository lock. They never write, so
// racing a mutation cannot corrupt anything; callers get an eventually
// consistent answer.

// IsClean reports whether the working tree has no staged, unstaged, or
// untracked changes.
func (e *Engine) IsClean(ctx context.Context, app App) (bool, error) {
	backend, _ := e.backend()
	return backend.IsClean(ctx, app.Path)
}

// CurrentBranch returns the branch HEAD is on.
func (e *Engine) CurrentBranch(ctx context.Context, app App) (string, error) {
	backend, _ := e.backend()
	return backend.CurrentBranch(ctx, app.Path)
}

// Log returns commits newest-first.
func (e *Engine) Log(ctx context.Context, app App, opts git.LogOptions) ([]git.Commit, error) {
	backend, _ := e.backend()
	return backend.Log(ctx, app.Path, opts)
}

// ListLocalBranches returns the short names of all local branches.
func (e *Engine) ListLocalBranches(ctx context.Context, app App) ([]string, error) {
	backend, _ := e.backend()
	return backend.ListLocalBranches(ctx, app.Path)
}

// ListRemoteBranches returns branch names known for remote, with the remote
// prefix stripped.
func (e *Engine) ListRemoteBranches(ctx context.Context, app App, remote string) ([]string, error) {
	backend, _ := e.backend()
	return backend.ListRemoteBranches(ctx, app.Path, remote)
}

// ConflictedFiles returns the paths with unresolved conflicts, sorted.
func (e *Engine) ConflictedFiles(ctx context.Context, app App) ([]string, error) {
	backend, _ := e.backend()
	return backend.ConflictedFiles(ctx, app.Path)
}

// FileAtCommit returns the contents of file as recorded at ref.
func (e *Engine) FileAtCommit(ctx context.Context, app App, ref, file string) (string, error) {
	backend, _ := e.backend()
	return backend.FileAtCommit(ctx, app.Path, ref, file)
}

// ResolveRef resolves a branch, tag, or revision expression to a commit id.
func (e *Engine) ResolveRef(ctx context.Context, app App, ref string) (string, error) {
	backend, _ := e.backend()
	return backend.ResolveRef(ctx, app.Path, ref)
}

// RemoteURL returns the first URL configured for remote.
func (e *Engine) RemoteURL(ctx context.Context, app App, remote string) (string, error) {
	backend, _ := e.backend()
	return backend.RemoteURL(ctx, app.Path, remote)
}

// State reports whether a merge or rebase is in flight. Detection is a
// filesystem check, so it is correct regardless of which backend started the
// operation.
func (e *Engine) State(app App) git.ControlState {
	return git.ProbeControlState(app.Path)
}
