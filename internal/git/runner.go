package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// urlCredentialPattern matches userinfo embedded in URLs so access tokens
// never reach logs or error messages
var urlCredentialPattern = regexp.MustCompile(`(\w+://)[^@/\s]+@`)

// Redact strips embedded URL credentials from a string
func Redact(s string) string {
	return urlCredentialPattern.ReplaceAllString(s, "$1*****@")
}

// redactArgs returns a copy of args safe for logging and error reporting
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = Redact(a)
	}
	return out
}

// CommandRunner executes git commands in a repository directory
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a CommandRunner rooted at dir. An empty dir runs
// commands in the process working directory, which is only appropriate for
// repository-independent commands such as global config access.
func NewCommandRunner(dir string) *CommandRunner {
	return &CommandRunner{workingDir: dir}
}

// Run executes a git command and returns trimmed stdout
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, nil, true, args...)
}

// RunRaw executes a git command and returns stdout without trimming
func (r *CommandRunner) RunRaw(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, nil, false, args...)
}

// RunWithEnv executes a git command with extra environment variables
func (r *CommandRunner) RunWithEnv(ctx context.Context, env []string, args ...string) (string, error) {
	return r.runInternal(ctx, env, true, args...)
}

// RunLines executes a git command and returns stdout as lines
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

func (r *CommandRunner) runInternal(ctx context.Context, env []string, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		runErr := err
		if ctx.Err() == context.DeadlineExceeded {
			runErr = ctx.Err()
		}
		return "", bridgeerrors.NewGitCommandError(
			"git",
			redactArgs(args),
			Redact(stdout.String()),
			Redact(stderr.String()),
			runErr,
		)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}
