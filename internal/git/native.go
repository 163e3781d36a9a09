package git

import (
	"context"
	"fmt"
	"os"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

// nativeBackend executes operations by invoking the system git executable.
// User-supplied values are always passed as discrete arguments, never
// through a shell.
type nativeBackend struct{}

// NewNative returns the backend backed by the system git executable.
func NewNative() Backend {
	return &nativeBackend{}
}

func (b *nativeBackend) Kind() Kind {
	return KindNative
}

func (b *nativeBackend) runner(path string) *CommandRunner {
	return NewCommandRunner(path)
}

// identityEnv builds the environment for commit-creating commands so the
// identity comes from the call, never from ambient git configuration.
func identityEnv(author Signature) []string {
	author = authorOrDefault(author)
	return []string{
		"GIT_AUTHOR_NAME=" + author.Name,
		"GIT_AUTHOR_EMAIL=" + author.Email,
		"GIT_COMMITTER_NAME=" + author.Name,
		"GIT_COMMITTER_EMAIL=" + author.Email,
	}
}

// Init creates a repository at path with the given default branch
func (b *nativeBackend) Init(ctx context.Context, path string, opts InitOptions) error {
	branch := branchOrDefault(opts.DefaultBranch)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create repository directory %s: %w", path, err)
	}
	_, err := b.runner(path).Run(ctx, "-c", "init.defaultBranch="+branch, "init", "-b", branch)
	if err != nil {
		return fmt.Errorf("failed to init repository at %s: %w", path, err)
	}
	return nil
}

// Clone clones url into path
func (b *nativeBackend) Clone(ctx context.Context, url, path string, opts CloneOptions) error {
	target := url
	if opts.Token != "" {
		authenticated, err := authenticatedURL(url, opts.Token)
		if err != nil {
			return err
		}
		target = authenticated
	}
	if _, err := NewCommandRunner("").Run(ctx, "clone", target, path); err != nil {
		return classify(path, "clone", fmt.Errorf("failed to clone %s: %w", Redact(url), err))
	}
	return nil
}

// IsClean reports whether the worktree has no staged, unstaged, or
// untracked changes
func (b *nativeBackend) IsClean(ctx context.Context, path string) (bool, error) {
	output, err := b.runner(path).Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check repository status: %w", err)
	}
	return output == "", nil
}

// CurrentBranch returns the checked-out branch name, or ErrNotOnBranch when
// HEAD is detached
func (b *nativeBackend) CurrentBranch(ctx context.Context, path string) (string, error) {
	output, err := b.runner(path).Run(ctx, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if output == "" {
		return "", bridgeerrors.ErrNotOnBranch
	}
	return output, nil
}
