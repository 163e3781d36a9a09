package git

import (
	"context"
	"fmt"
	"os"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

// goGitMu serializes go-git object access to prevent concurrent packfile
// reads from racing
var goGitMu sync.Mutex

// embeddedBackend performs operations in-process via go-git, never invoking
// an external executable. Repositories are opened per call; the backend
// holds no state between operations.
type embeddedBackend struct{}

// NewEmbedded returns the pure in-process backend.
func NewEmbedded() Backend {
	return &embeddedBackend{}
}

func (b *embeddedBackend) Kind() Kind {
	return KindEmbedded
}

// open opens the repository at path, detecting the control directory the
// same way the git executable does
func (b *embeddedBackend) open(path string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	return repo, nil
}

func (b *embeddedBackend) worktree(path string) (*gogit.Repository, *gogit.Worktree, error) {
	repo, err := b.open(path)
	if err != nil {
		return nil, nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return repo, wt, nil
}

// basicAuth converts a bearer token into the transport credentials go-git
// expects. Hosting providers accept tokens as basic-auth passwords.
func basicAuth(token string) *http.BasicAuth {
	if token == "" {
		return nil
	}
	return &http.BasicAuth{Username: "git", Password: token}
}

// Init creates a repository at path with the given default branch
func (b *embeddedBackend) Init(ctx context.Context, path string, opts InitOptions) error {
	branch := branchOrDefault(opts.DefaultBranch)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create repository directory %s: %w", path, err)
	}
	_, err := gogit.PlainInitWithOptions(path, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(branch),
		},
		Bare: false,
	})
	if err != nil {
		return fmt.Errorf("failed to init repository at %s: %w", path, err)
	}
	return nil
}

// Clone clones url into path
func (b *embeddedBackend) Clone(ctx context.Context, url, path string, opts CloneOptions) error {
	_, err := gogit.PlainCloneContext(ctx, path, false, &gogit.CloneOptions{
		URL:  url,
		Auth: basicAuth(opts.Token),
	})
	if err != nil {
		return classify(path, "clone", fmt.Errorf("failed to clone %s: %w", Redact(url), err))
	}
	return nil
}

// IsClean reports whether the worktree has no staged, unstaged, or
// untracked changes
func (b *embeddedBackend) IsClean(ctx context.Context, path string) (bool, error) {
	_, wt, err := b.worktree(path)
	if err != nil {
		return false, err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to check repository status: %w", err)
	}
	return status.IsClean(), nil
}

// CurrentBranch returns the checked-out branch name, or ErrNotOnBranch when
// HEAD is detached. It reads the HEAD symref directly so an unborn branch in
// a freshly initialized repository still reports its name.
func (b *embeddedBackend) CurrentBranch(ctx context.Context, path string) (string, error) {
	repo, err := b.open(path)
	if err != nil {
		return "", err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", bridgeerrors.ErrNotOnBranch
	}
	return head.Target().Short(), nil
}
