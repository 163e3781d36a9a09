package engine

import (
	"context"

	"go.uber.org/zap"

	"gitbridge.dev/gitbridge/internal/config"
	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
	"gitbridge.dev/gitbridge/internal/git"
	"gitbridge.dev/gitbridge/internal/locks"
)

// App identifies a repository managed by the engine.
type App struct {
	// ID keys the per-repository lock, so moving a checkout on disk does not
	// split its serialization domain. Path is used as the key when ID is empty.
	ID string

	// Path is the absolute repository path. The engine never resolves
	// relative paths; that is the caller's job.
	Path string
}

// LockKey returns the identity mutations serialize on.
func (a App) LockKey() string {
	if a.ID != "" {
		return a.ID
	}
	return a.Path
}

// Engine dispatches git operations to the configured backend. Construct with
// New; the zero value is not usable.
type Engine struct {
	src        config.Source
	locks      *locks.Registry
	logger     *zap.Logger
	newBackend func(git.Kind) git.Backend
}

// New creates an engine that reads backend selection and author identity from
// src on every call. A nil logger disables the debug trace.
func New(src config.Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		src:        src,
		locks:      locks.NewRegistry(),
		logger:     logger,
		newBackend: git.New,
	}
}

// backend resolves the implementation for this call. Settings are re-read
// every time so the surrounding application can flip the backend at runtime.
func (e *Engine) backend() (git.Backend, config.Settings) {
	settings := e.src.Current()
	return e.newBackend(settings.BackendKind()), settings
}

// withRepo runs one mutating operation while holding the repository lock and
// records it in the debug trace.
func (e *Engine) withRepo(ctx context.Context, app App, op string, fn func(backend git.Backend, settings config.Settings) error) error {
	release, err := e.locks.Acquire(ctx, app.LockKey())
	if err != nil {
		return err
	}
	defer release()

	backend, settings := e.backend()
	err = fn(backend, settings)
	e.logOp(op, app, backend.Kind(), err)
	return err
}

func (e *Engine) logOp(op string, app App, kind git.Kind, err error) {
	if err != nil {
		e.logger.Debug("git operation failed",
			zap.String("op", op),
			zap.String("app", app.LockKey()),
			zap.String("backend", kind.String()),
			zap.String("class", bridgeerrors.ClassOf(err).String()),
			zap.Error(err),
		)
		return
	}
	e.logger.Debug("git operation",
		zap.String("op", op),
		zap.String("app", app.LockKey()),
		zap.String("backend", kind.String()),
	)
}

// guardNoOperationInProgress refuses to start op while a merge or rebase is
// pending. Stacking a second operation onto unresolved conflicts corrupts
// repository state, so the pending one must be concluded or aborted first.
func guardNoOperationInProgress(app App, op string) error {
	if state := git.ProbeControlState(app.Path); state != git.StateClean {
		return bridgeerrors.NewOperationInProgressError(stateWord(state), op)
	}
	return nil
}

// stateWord names the pending operation for error messages.
func stateWord(state git.ControlState) string {
	if state == git.StateMergeInProgress {
		return "merge"
	}
	return "rebase"
}

// RegisterSafeDirectory adds the app's path to the git executable's global
// safe.directory allow-list. The embedded backend never consults that list,
// so this is a no-op success when it is selected. Registration is idempotent;
// latency-sensitive callers run it in a goroutine off their critical path.
func (e *Engine) RegisterSafeDirectory(ctx context.Context, app App) error {
	_, settings := e.backend()
	if settings.BackendKind() == git.KindEmbedded {
		return nil
	}
	err := git.RegisterSafeDirectory(ctx, app.Path)
	e.logOp("register-safe-directory", app, git.KindNative, err)
	return err
}
