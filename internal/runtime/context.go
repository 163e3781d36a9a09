// Package runtime assembles the pieces a command invocation needs: the
// settings store, the logger, the engine, and the repository handle. Commands
// receive one Context instead of wiring four dependencies each.
package runtime

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"gitbridge.dev/gitbridge/internal/config"
	"gitbridge.dev/gitbridge/internal/engine"
	"gitbridge.dev/gitbridge/internal/logging"
	"gitbridge.dev/gitbridge/internal/output"
)

// Context carries the wired application for one command invocation.
type Context struct {
	Engine *engine.Engine
	Store  *config.Store
	Logger *zap.Logger
	Splog  *output.Splog
	App    engine.App
}

// Options configures context construction.
type Options struct {
	// Dir is the repository the command operates on, resolved to an absolute
	// path. Empty means the working directory.
	Dir string

	// AppID overrides the per-repository lock key; the path keys the lock
	// when empty.
	AppID string

	// Debug lowers the console trace threshold and annotates entries with
	// callers and stacktraces.
	Debug bool

	// ConfigPath overrides the settings document location. Tests point it at
	// a scratch file so user settings stay untouched.
	ConfigPath string
}

// New builds a runtime context. The settings document is created on first
// write, so a missing file is not an error; a corrupt one is.
func New(opts Options) (*Context, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := config.Open(configPath)
	if err != nil {
		return nil, err
	}

	logFile := store.Current().LogFile
	if logFile == "" {
		logFile = logging.DefaultLogPath()
	}
	logger, logErr := logging.New(opts.Debug, logFile)

	ctx := &Context{
		Engine: engine.New(store, logger),
		Store:  store,
		Logger: logger,
		Splog:  output.NewSplog(),
		App:    engine.App{ID: opts.AppID, Path: abs},
	}
	if logErr != nil {
		// Console logging still works; say so once and carry on.
		ctx.Splog.Warn("debug log file unavailable: %v", logErr)
	}
	return ctx, nil
}

// Close flushes buffered log output. Sync errors on a terminal stderr are
// expected and ignored.
func (c *Context) Close() {
	_ = c.Logger.Sync()
}
