package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

// RemoteURL returns the first URL configured for the remote
func (b *embeddedBackend) RemoteURL(ctx context.Context, path, remote string) (string, error) {
	repo, err := b.open(path)
	if err != nil {
		return "", err
	}

	remote = remoteOrDefault(remote)
	r, err := repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("failed to get url for remote %s: %w", remote, err)
	}
	urls := r.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no url", remote)
	}
	return urls[0], nil
}

// SetRemoteURL points the remote at url, creating the remote if needed
func (b *embeddedBackend) SetRemoteURL(ctx context.Context, path, remote, url string) error {
	repo, err := b.open(path)
	if err != nil {
		return err
	}

	remote = remoteOrDefault(remote)

	goGitMu.Lock()
	defer goGitMu.Unlock()

	if err := repo.DeleteRemote(remote); err != nil && !errors.Is(err, gogit.ErrRemoteNotFound) {
		return fmt.Errorf("failed to replace remote %s: %w", remote, err)
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: remote, URLs: []string{url}}); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", remote, err)
	}
	return nil
}

// Fetch updates remote-tracking refs from the remote. Already up to date is
// not an error.
func (b *embeddedBackend) Fetch(ctx context.Context, path string, opts FetchOptions) error {
	repo, err := b.open(path)
	if err != nil {
		return err
	}

	remote := remoteOrDefault(opts.Remote)
	err = repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remote,
		Auth:       basicAuth(opts.Token),
		Force:      true,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return classify(path, "fetch", fmt.Errorf("failed to fetch from %s: %w", remote, err))
	}
	return nil
}

// Pull fetches the branch from the remote and fast-forwards the worktree.
// Divergent histories surface as a conflict; go-git does not create merge
// commits on pull.
func (b *embeddedBackend) Pull(ctx context.Context, path string, opts PullOptions) error {
	_, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	remote := remoteOrDefault(opts.Remote)
	branch := branchOrDefault(opts.Branch)

	goGitMu.Lock()
	defer goGitMu.Unlock()

	err = wt.PullContext(ctx, &gogit.PullOptions{
		RemoteName:    remote,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Auth:          basicAuth(opts.Token),
	})
	if err != nil {
		if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
			return nil
		}
		if errors.Is(err, gogit.ErrNonFastForwardUpdate) {
			return bridgeerrors.NewConflictError("pull", nil, err)
		}
		return classify(path, "pull", fmt.Errorf("failed to pull %s from %s: %w", branch, remote, err))
	}
	return nil
}

// Push uploads the branch to the remote. Force-with-lease is a native-only
// capability and is rejected before any network traffic.
func (b *embeddedBackend) Push(ctx context.Context, path string, opts PushOptions) error {
	if opts.ForceWithLease {
		return bridgeerrors.NewUnsupportedCapabilityError(KindEmbedded.String(), "force-with-lease push")
	}

	repo, err := b.open(path)
	if err != nil {
		return err
	}

	remote := remoteOrDefault(opts.Remote)
	branch := branchOrDefault(opts.Branch)

	refspec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)
	if opts.Force {
		refspec = "+" + refspec
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	err = repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(refspec)},
		Auth:       basicAuth(opts.Token),
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return classify(path, "push", fmt.Errorf("failed to push %s to %s: %w", branch, remote, err))
	}
	return nil
}
