package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	logRecordSep = "\x1e"
	logFieldSep  = "\x1f"
)

// Commit creates a commit from the index and returns the new commit id
func (b *nativeBackend) Commit(ctx context.Context, path string, opts CommitOptions) (string, error) {
	args := []string{"commit", "-m", opts.Message}
	if opts.Amend {
		args = []string{"commit", "--amend", "-m", opts.Message}
	}

	runner := b.runner(path)
	if _, err := runner.RunWithEnv(ctx, identityEnv(opts.Author), args...); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	oid, err := runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to read new commit id: %w", err)
	}
	return oid, nil
}

// Log returns commits reachable from HEAD, newest first
func (b *nativeBackend) Log(ctx context.Context, path string, opts LogOptions) ([]Commit, error) {
	args := []string{"log", "--format=%H%x1f%at%x1f%B%x1e"}
	if opts.Depth > 0 {
		args = append(args, "-n", strconv.Itoa(opts.Depth))
	}

	output, err := b.runner(path).RunRaw(ctx, args...)
	if err != nil {
		// A freshly initialized repository has no commits to list
		if strings.Contains(err.Error(), "does not have any commits") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	var commits []Commit
	for _, record := range strings.Split(output, logRecordSep) {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		parts := strings.SplitN(record, logFieldSep, 3)
		if len(parts) != 3 {
			continue
		}
		timestamp, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse commit timestamp %q: %w", parts[1], err)
		}
		commits = append(commits, Commit{
			OID:     parts[0],
			Message: strings.TrimSpace(parts[2]),
			When:    time.Unix(timestamp, 0),
		})
	}
	return commits, nil
}

// FileAtCommit returns the content of file as it existed at oid
func (b *nativeBackend) FileAtCommit(ctx context.Context, path, oid, file string) (string, error) {
	content, err := b.runner(path).RunRaw(ctx, "show", oid+":"+file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s at %s: %w", file, oid, err)
	}
	return content, nil
}

// RevertToCommit stages a state equivalent to oid without moving HEAD. The
// hard reset materializes the target state in worktree and index, and the
// soft reset moves HEAD back while leaving both untouched, so the staged
// diff is exactly current-state -> target-state.
func (b *nativeBackend) RevertToCommit(ctx context.Context, path, oid string) error {
	runner := b.runner(path)

	head, err := runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if _, err := runner.Run(ctx, "reset", "--hard", oid); err != nil {
		return fmt.Errorf("failed to reset worktree to %s: %w", oid, err)
	}
	if _, err := runner.Run(ctx, "reset", "-q", "--soft", head); err != nil {
		return fmt.Errorf("failed to restore HEAD to %s: %w", head, err)
	}
	return nil
}

// ResolveRef resolves a branch name, tag, or revision expression to a
// commit id
func (b *nativeBackend) ResolveRef(ctx context.Context, path, ref string) (string, error) {
	oid, err := b.runner(path).Run(ctx, "rev-parse", ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	return oid, nil
}
