package git

import "time"

const (
	// DefaultRemote is the remote name assumed when none is specified
	DefaultRemote = "origin"

	// DefaultBranch is the branch name assumed when none is specified
	DefaultBranch = "main"
)

// Signature identifies a commit author
type Signature struct {
	Name  string
	Email string
}

// IsZero reports whether the signature carries no identity
func (s Signature) IsZero() bool {
	return s.Name == "" && s.Email == ""
}

// DefaultSignature returns the author identity used when callers supply none
func DefaultSignature() Signature {
	return Signature{Name: "gitbridge", Email: "git@gitbridge.dev"}
}

// Commit is an immutable point in repository history
type Commit struct {
	OID     string
	Message string
	When    time.Time
}

// InitOptions contains options for initializing a repository
type InitOptions struct {
	// DefaultBranch is the initial branch name; DefaultBranch const when empty
	DefaultBranch string
}

// CloneOptions contains options for cloning a repository
type CloneOptions struct {
	Token string
}

// CommitOptions contains options for creating a commit
type CommitOptions struct {
	Message string
	Amend   bool
	// Author is used for both author and committer identity; the engine never
	// relies on ambient git configuration for commits
	Author Signature
}

// LogOptions contains options for reading history
type LogOptions struct {
	// Depth bounds the number of commits returned; <= 0 means all
	Depth int
}

// FetchOptions contains options for fetching from a remote
type FetchOptions struct {
	Remote string
	Token  string
}

// PullOptions contains options for pulling a branch
type PullOptions struct {
	Remote string
	Branch string
	Token  string
	// Author identifies the committer if the pull creates a merge commit
	Author Signature
}

// PushOptions contains options for pushing a branch
type PushOptions struct {
	Remote string
	Branch string
	Token  string
	Force  bool
	// ForceWithLease overwrites the remote ref only if it has not changed
	// since last observed. Only the native backend can honor it.
	ForceWithLease bool
}

// MergeOptions contains options for merging a branch
type MergeOptions struct {
	// Author identifies the committer for a non-fast-forward merge commit
	Author Signature
}

// remoteOrDefault normalizes an optional remote name
func remoteOrDefault(remote string) string {
	if remote == "" {
		return DefaultRemote
	}
	return remote
}

// branchOrDefault normalizes an optional branch name
func branchOrDefault(branch string) string {
	if branch == "" {
		return DefaultBranch
	}
	return branch
}

// authorOrDefault normalizes an optional author identity
func authorOrDefault(author Signature) Signature {
	if author.IsZero() {
		return DefaultSignature()
	}
	return author
}
