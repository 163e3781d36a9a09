package git

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// authenticatedURL embeds a bearer token as basic-auth credentials in a
// remote URL. The result is passed to a single git invocation and never
// written to repository configuration.
func authenticatedURL(rawURL, token string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("cannot embed credentials in remote url %s", Redact(rawURL))
	}
	parsed.User = url.UserPassword("git", token)
	return parsed.String(), nil
}

// remoteTarget returns what fetch/pull/push should address: the remote name
// when no token is supplied, or the remote's URL with embedded credentials
// for a single authenticated invocation.
func (b *nativeBackend) remoteTarget(ctx context.Context, path, remote, token string) (string, error) {
	if token == "" {
		return remote, nil
	}
	rawURL, err := b.RemoteURL(ctx, path, remote)
	if err != nil {
		return "", err
	}
	return authenticatedURL(rawURL, token)
}

// RemoteURL returns the fetch URL configured for remote
func (b *nativeBackend) RemoteURL(ctx context.Context, path, remote string) (string, error) {
	remote = remoteOrDefault(remote)
	rawURL, err := b.runner(path).Run(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("failed to get url for remote %s: %w", remote, err)
	}
	return rawURL, nil
}

// SetRemoteURL points remote at url, creating the remote if needed
func (b *nativeBackend) SetRemoteURL(ctx context.Context, path, remote, url string) error {
	remote = remoteOrDefault(remote)
	runner := b.runner(path)

	if _, err := runner.Run(ctx, "remote", "get-url", remote); err == nil {
		if _, err := runner.Run(ctx, "remote", "set-url", remote, url); err != nil {
			return fmt.Errorf("failed to update remote %s: %w", remote, err)
		}
		return nil
	}
	if _, err := runner.Run(ctx, "remote", "add", remote, url); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", remote, err)
	}
	return nil
}

// Fetch updates remote-tracking refs from the remote
func (b *nativeBackend) Fetch(ctx context.Context, path string, opts FetchOptions) error {
	remote := remoteOrDefault(opts.Remote)
	target, err := b.remoteTarget(ctx, path, remote, opts.Token)
	if err != nil {
		return err
	}

	args := []string{"fetch", target}
	if target != remote {
		// Fetching by URL bypasses the remote's configured refspecs, so the
		// tracking refs must be named explicitly.
		args = append(args, "+refs/heads/*:refs/remotes/"+remote+"/*")
	}
	if _, err := b.runner(path).Run(ctx, args...); err != nil {
		return classify(path, "fetch", fmt.Errorf("failed to fetch from %s: %w", remote, err))
	}
	return nil
}

// Pull fetches and integrates a branch from the remote
func (b *nativeBackend) Pull(ctx context.Context, path string, opts PullOptions) error {
	remote := remoteOrDefault(opts.Remote)
	branch := branchOrDefault(opts.Branch)
	target, err := b.remoteTarget(ctx, path, remote, opts.Token)
	if err != nil {
		return err
	}

	// Pin the merge strategy so divergent histories start a real merge
	// instead of failing on unset pull.rebase configuration.
	_, err = b.runner(path).RunWithEnv(ctx, identityEnv(opts.Author), "-c", "pull.rebase=false", "pull", target, branch)
	if err != nil {
		return classify(path, "pull", fmt.Errorf("failed to pull %s from %s: %w", branch, remote, err))
	}
	return nil
}

// Push pushes a branch to the remote. Tokenless pushes address the remote by
// name and configure upstream tracking; authenticated pushes address the URL
// directly so the token never persists in repository configuration.
func (b *nativeBackend) Push(ctx context.Context, path string, opts PushOptions) error {
	remote := remoteOrDefault(opts.Remote)
	branch := branchOrDefault(opts.Branch)
	target, err := b.remoteTarget(ctx, path, remote, opts.Token)
	if err != nil {
		return err
	}

	args := []string{"push"}
	if target == remote {
		args = append(args, "-u")
	}
	args = append(args, target)
	if opts.Force {
		args = append(args, "--force")
	} else if opts.ForceWithLease {
		args = append(args, "--force-with-lease")
	}
	args = append(args, branch)

	if _, err := b.runner(path).Run(ctx, args...); err != nil {
		if opts.ForceWithLease && (strings.Contains(err.Error(), "stale info") || strings.Contains(err.Error(), "forced update")) {
			return fmt.Errorf("push of %s was refused because the remote branch changed since it was last observed: %w", branch, err)
		}
		return classify(path, "push", fmt.Errorf("failed to push %s to %s: %w", branch, remote, err))
	}
	return nil
}
