package git

import "context"

// Kind identifies which backend executes an operation.
type Kind int

const (
	// KindNative shells out to the system git executable
	KindNative Kind = iota
	// KindEmbedded operates on repository storage in-process
	KindEmbedded
)

func (k Kind) String() string {
	if k == KindEmbedded {
		return "embedded"
	}
	return "native"
}

// Backend is the capability contract both git implementations satisfy.
// Every method takes the absolute path of the repository it operates on;
// backends hold no per-repository state between calls.
//
// The two implementations are not perfectly symmetric. The embedded backend
// cannot create branches from arbitrary non-HEAD refs, create tracking
// branches for refs it has not materialized locally, honor force-with-lease
// pushes, or replay commits during a rebase; those operations return errors
// matching errors.ErrUnsupportedCapability so callers can fall back or refuse.
type Backend interface {
	Kind() Kind

	// Repository lifecycle
	Init(ctx context.Context, path string, opts InitOptions) error
	Clone(ctx context.Context, url, path string, opts CloneOptions) error

	// State queries
	IsClean(ctx context.Context, path string) (bool, error)
	CurrentBranch(ctx context.Context, path string) (string, error)

	// Commits and history
	Commit(ctx context.Context, path string, opts CommitOptions) (string, error)
	Log(ctx context.Context, path string, opts LogOptions) ([]Commit, error)
	FileAtCommit(ctx context.Context, path, oid, file string) (string, error)
	RevertToCommit(ctx context.Context, path, oid string) error
	ResolveRef(ctx context.Context, path, ref string) (string, error)

	// Worktree and staging
	Checkout(ctx context.Context, path, ref string) error
	StageAll(ctx context.Context, path string) error
	StageFiles(ctx context.Context, path string, files []string) error
	RemoveFiles(ctx context.Context, path string, files []string) error
	UnstageFiles(ctx context.Context, path string, files []string) error

	// Branches
	CreateBranch(ctx context.Context, path, name, startPoint string) error
	CreateTrackingBranch(ctx context.Context, path, name, remoteRef string) error
	RenameBranch(ctx context.Context, path, oldName, newName string) error
	DeleteBranch(ctx context.Context, path, name string) error
	ListLocalBranches(ctx context.Context, path string) ([]string, error)
	ListRemoteBranches(ctx context.Context, path, remote string) ([]string, error)

	// Remotes
	RemoteURL(ctx context.Context, path, remote string) (string, error)
	SetRemoteURL(ctx context.Context, path, remote, url string) error
	Fetch(ctx context.Context, path string, opts FetchOptions) error
	Pull(ctx context.Context, path string, opts PullOptions) error
	Push(ctx context.Context, path string, opts PushOptions) error

	// Merge and rebase
	Merge(ctx context.Context, path, branch string, opts MergeOptions) error
	MergeAbort(ctx context.Context, path string) error
	Rebase(ctx context.Context, path, onto string) error
	RebaseAbort(ctx context.Context, path string) error
	RebaseContinue(ctx context.Context, path string) error

	// Conflict inspection
	ConflictedFiles(ctx context.Context, path string) ([]string, error)
}

// New returns the backend implementation for the given kind.
func New(kind Kind) Backend {
	if kind == KindEmbedded {
		return &embeddedBackend{}
	}
	return &nativeBackend{}
}
