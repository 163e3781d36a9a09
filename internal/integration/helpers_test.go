package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitbridge.dev/gitbridge/testhelpers"
)

// TestShell wraps a repository and the gitbridge binary so tests read like a
// terminal session. Every invocation runs against a private settings file and
// with global git configuration masked, so nothing from the host machine
// leaks into assertions.
type TestShell struct {
	t          *testing.T
	repo       *testhelpers.GitRepo
	dir        string
	binaryPath string
	configPath string
	env        []string
	lastOutput string
}

func newShell(t *testing.T, binaryPath, dir string, repo *testhelpers.GitRepo) *TestShell {
	t.Helper()
	scratch := t.TempDir()
	env := append(os.Environ(),
		"GIT_CONFIG_GLOBAL="+os.DevNull,
		"GITBRIDGE_LOG_FILE="+filepath.Join(scratch, "gitbridge.log"),
	)
	return &TestShell{
		t:          t,
		repo:       repo,
		dir:        dir,
		binaryPath: binaryPath,
		configPath: filepath.Join(scratch, "settings.json"),
		env:        env,
	}
}

// NewTestShell creates a shell over a fresh repository holding one commit.
func NewTestShell(t *testing.T, binaryPath string) *TestShell {
	t.Helper()
	scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		return s.Repo.CreateChangeAndCommit("initial", "init")
	})
	return newShell(t, binaryPath, scene.Dir, scene.Repo)
}

// NewEmptyShell creates a shell over an empty directory, for sessions that
// start with init.
func NewEmptyShell(t *testing.T, binaryPath string) *TestShell {
	t.Helper()
	dir := t.TempDir()
	return newShell(t, binaryPath, dir, &testhelpers.GitRepo{Dir: dir})
}

// NewTestShellWithRemote creates a shell whose repository publishes to a
// local bare remote, and returns the remote path for cloning.
func NewTestShellWithRemote(t *testing.T, binaryPath string) (*TestShell, string) {
	t.Helper()
	shell := NewTestShell(t, binaryPath)
	bare, err := shell.repo.CreateBareRemote("origin")
	require.NoError(t, err)
	shell.Run("push")
	return shell, bare
}

// CloneShell clones a bare remote through the binary and returns a shell over
// the clone. The clone gets its own settings file, so its backend can differ
// from the publisher's.
func CloneShell(t *testing.T, binaryPath, bare string) *TestShell {
	t.Helper()
	dest := filepath.Join(t.TempDir(), "clone")
	seed := newShell(t, binaryPath, t.TempDir(), nil)
	seed.Run("clone " + bare + " " + dest)

	repo := &testhelpers.GitRepo{Dir: dest}
	// Fixture helpers commit with raw git, which needs a local identity.
	require.NoError(t, repo.RunGitCommand("config", "user.name", "Test User"))
	require.NoError(t, repo.RunGitCommand("config", "user.email", "test@example.com"))
	return newShell(t, binaryPath, dest, repo)
}

// Dir returns the working directory of the shell.
func (s *TestShell) Dir() string {
	return s.dir
}

// Run executes a gitbridge command (e.g. "commit -m 'Add feature'") and fails
// the test if it errors.
func (s *TestShell) Run(args string) *TestShell {
	s.t.Helper()
	output, err := s.exec(args)
	require.NoError(s.t, err, "$ gitbridge %s\n%s", args, output)
	return s
}

// RunExpectError executes a gitbridge command and expects it to fail.
func (s *TestShell) RunExpectError(args string) *TestShell {
	s.t.Helper()
	output, err := s.exec(args)
	require.Error(s.t, err, "$ gitbridge %s (expected error)\n%s", args, output)
	return s
}

func (s *TestShell) exec(args string) (string, error) {
	parts := append([]string{"--config", s.configPath}, splitArgs(args)...)
	cmd := exec.Command(s.binaryPath, parts...)
	cmd.Dir = s.dir
	cmd.Env = s.env
	output, err := cmd.CombinedOutput()
	s.lastOutput = string(output)
	return s.lastOutput, err
}

// Git executes a raw git command, for fixture work the binary does not cover.
func (s *TestShell) Git(args string) *TestShell {
	s.t.Helper()
	cmd := exec.Command("git", splitArgs(args)...)
	cmd.Dir = s.dir
	cmd.Env = s.env
	output, err := cmd.CombinedOutput()
	s.lastOutput = string(output)
	require.NoError(s.t, err, "$ git %s\n%s", args, s.lastOutput)
	return s
}

// UseNative persists the native backend in this shell's settings.
func (s *TestShell) UseNative() *TestShell {
	s.t.Helper()
	return s.Run("config --native")
}

// UseEmbedded persists the embedded backend in this shell's settings.
func (s *TestShell) UseEmbedded() *TestShell {
	s.t.Helper()
	return s.Run("config --embedded")
}

// Checkout switches branches through the binary.
func (s *TestShell) Checkout(branch string) *TestShell {
	s.t.Helper()
	return s.Run("checkout " + branch)
}

// Write stages a change to <prefix>_test.txt.
func (s *TestShell) Write(prefix, content string) *TestShell {
	s.t.Helper()
	require.NoError(s.t, s.repo.CreateChange(content, prefix, false))
	return s
}

// WriteFile writes exact content to filename and stages it through the binary.
func (s *TestShell) WriteFile(filename, content string) *TestShell {
	s.t.Helper()
	require.NoError(s.t, s.repo.WriteFile(filename, content))
	return s.Run("add " + filename)
}

// Commit stages a change to <prefix>_test.txt and records it through the
// binary, using the message as the file content.
func (s *TestShell) Commit(prefix, message string) *TestShell {
	s.t.Helper()
	return s.Write(prefix, message).Run("commit -m '" + message + "'")
}

// Output returns the last command's output.
func (s *TestShell) Output() string {
	return s.lastOutput
}

// OutputContains asserts the last output contains the given string.
func (s *TestShell) OutputContains(substr string) *TestShell {
	s.t.Helper()
	require.Contains(s.t, s.lastOutput, substr)
	return s
}

// OutputNotContains asserts the last output does not contain the given string.
func (s *TestShell) OutputNotContains(substr string) *TestShell {
	s.t.Helper()
	require.NotContains(s.t, s.lastOutput, substr)
	return s
}

// OnBranch asserts the repository is on the expected branch.
func (s *TestShell) OnBranch(expected string) *TestShell {
	s.t.Helper()
	branch, err := s.repo.CurrentBranchName()
	require.NoError(s.t, err)
	require.Equal(s.t, expected, branch)
	return s
}

// CleanTree asserts the working tree has nothing pending.
func (s *TestShell) CleanTree() *TestShell {
	s.t.Helper()
	out, err := s.repo.RunGitCommandAndGetOutput("status", "--porcelain")
	require.NoError(s.t, err)
	require.Empty(s.t, out)
	return s
}

// FileHas asserts a worktree file holds exactly content.
func (s *TestShell) FileHas(filename, content string) *TestShell {
	s.t.Helper()
	got, err := s.repo.ReadFile(filename)
	require.NoError(s.t, err)
	require.Equal(s.t, content, got)
	return s
}

// Head returns the commit id of HEAD.
func (s *TestShell) Head() string {
	s.t.Helper()
	sha, err := s.repo.GetCurrentSHA()
	require.NoError(s.t, err)
	return sha
}

// CommitCount asserts the number of commits between two refs.
func (s *TestShell) CommitCount(from, to string, expected int) *TestShell {
	s.t.Helper()
	out, err := s.repo.RunGitCommandAndGetOutput("log", "--oneline", from+".."+to)
	require.NoError(s.t, err)
	actual := countNonEmptyLines(out)
	require.Equal(s.t, expected, actual, "expected %d commits between %s..%s, got %d", expected, from, to, actual)
	return s
}

// splitArgs splits a command string into args, respecting quotes.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case r == '"' || r == '\'':
			switch {
			case inQuote && r == quoteChar:
				inQuote = false
			case !inQuote:
				inQuote = true
				quoteChar = r
			default:
				current.WriteRune(r)
			}
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// countNonEmptyLines counts lines that have non-whitespace content.
func countNonEmptyLines(s string) int {
	count := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
