package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/samber/lo"
)

// Commit records the staged changes as a commit and returns its hash.
// Empty commits are allowed; callers that care check IsClean first.
func (b *embeddedBackend) Commit(ctx context.Context, path string, opts CommitOptions) (string, error) {
	_, wt, err := b.worktree(path)
	if err != nil {
		return "", err
	}

	author := authorOrDefault(opts.Author)
	sig := &object.Signature{
		Name:  author.Name,
		Email: author.Email,
		When:  time.Now(),
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	hash, err := wt.Commit(opts.Message, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Amend:             opts.Amend,
		AllowEmptyCommits: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}

// Log returns commits reachable from HEAD, newest first. An unborn branch
// yields an empty slice.
func (b *embeddedBackend) Log(ctx context.Context, path string, opts LogOptions) ([]Commit, error) {
	repo, err := b.open(path)
	if err != nil {
		return nil, err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	iter, err := repo.Log(&gogit.LogOptions{
		From:  head.Hash(),
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if opts.Depth > 0 && len(commits) >= opts.Depth {
			return storer.ErrStop
		}
		commits = append(commits, Commit{
			OID:     c.Hash.String(),
			Message: strings.TrimSpace(c.Message),
			When:    c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate log: %w", err)
	}
	return commits, nil
}

// FileAtCommit returns the content of name as recorded in the given commit
func (b *embeddedBackend) FileAtCommit(ctx context.Context, path, oid, name string) (string, error) {
	repo, err := b.open(path)
	if err != nil {
		return "", err
	}

	hash, err := resolveRefHash(repo, oid)
	if err != nil {
		return "", err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return "", fmt.Errorf("failed to load commit %s: %w", oid, err)
	}
	file, err := commit.File(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s at %s: %w", name, oid, err)
	}
	content, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("failed to read %s at %s: %w", name, oid, err)
	}
	return content, nil
}

// RevertToCommit restores the working tree to the state of the given commit
// and stages the result, without moving any refs. History is preserved; the
// caller commits the restored state as a new commit.
func (b *embeddedBackend) RevertToCommit(ctx context.Context, path, oid string) error {
	repo, wt, err := b.worktree(path)
	if err != nil {
		return err
	}

	hash, err := resolveRefHash(repo, oid)
	if err != nil {
		return err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return fmt.Errorf("failed to load commit %s: %w", oid, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("failed to load tree for %s: %w", oid, err)
	}

	// Restore every path from the target commit whose content differs from
	// the working tree copy.
	fs := wt.Filesystem
	target := make(map[string]struct{})
	err = tree.Files().ForEach(func(f *object.File) error {
		target[f.Name] = struct{}{}
		want, err := f.Contents()
		if err != nil {
			return fmt.Errorf("failed to read blob for %s: %w", f.Name, err)
		}
		if have, err := readWorktreeFile(fs, f.Name); err == nil && have == want {
			return nil
		}
		mode, err := f.Mode.ToOSFileMode()
		if err != nil {
			mode = 0o644
		}
		if dir := filepath.Dir(f.Name); dir != "." {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
		if err := util.WriteFile(fs, f.Name, []byte(want), mode); err != nil {
			return fmt.Errorf("failed to restore %s: %w", f.Name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Delete paths present in the working tree or index but absent at the
	// target commit.
	known, err := knownPaths(repo, wt)
	if err != nil {
		return err
	}
	for _, name := range known {
		if _, ok := target[name]; ok {
			continue
		}
		if err := fs.Remove(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage reverted state: %w", err)
	}
	return nil
}

// ResolveRef resolves a branch name, tag, remote ref, or revision expression
// to a full commit hash
func (b *embeddedBackend) ResolveRef(ctx context.Context, path, ref string) (string, error) {
	repo, err := b.open(path)
	if err != nil {
		return "", err
	}
	hash, err := resolveRefHash(repo, ref)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// resolveRefHash resolves a ref in the same order the git executable tries:
// full ref name, local branch, remote branch, tag, then a revision expression
func resolveRefHash(repo *gogit.Repository, ref string) (plumbing.Hash, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	if r, err := repo.Reference(plumbing.ReferenceName(ref), true); err == nil {
		return r.Hash(), nil
	}
	if r, err := repo.Reference(plumbing.NewBranchReferenceName(ref), true); err == nil {
		return r.Hash(), nil
	}
	if r, err := repo.Reference(plumbing.ReferenceName("refs/remotes/"+ref), true); err == nil {
		return r.Hash(), nil
	}
	if r, err := repo.Reference(plumbing.NewTagReferenceName(ref), true); err == nil {
		return r.Hash(), nil
	}
	if hash, err := repo.ResolveRevision(plumbing.Revision(ref)); err == nil {
		return *hash, nil
	}
	return plumbing.ZeroHash, fmt.Errorf("failed to resolve ref %s: reference not found", ref)
}

// knownPaths returns the union of index entries and status-visible paths,
// sorted for deterministic iteration
func knownPaths(repo *gogit.Repository, wt *gogit.Worktree) ([]string, error) {
	seen := make(map[string]struct{})
	if idx, err := repo.Storer.Index(); err == nil {
		for _, e := range idx.Entries {
			seen[e.Name] = struct{}{}
		}
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}
	for name := range status {
		seen[name] = struct{}{}
	}
	names := lo.Keys(seen)
	sort.Strings(names)
	return names, nil
}

func readWorktreeFile(fs billy.Filesystem, name string) (string, error) {
	f, err := fs.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
