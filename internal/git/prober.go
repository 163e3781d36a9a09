package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ControlState describes whether a repository has a merge or rebase in flight.
// A repository is never in both states at once; whichever marker is present
// wins, and absence of both means clean.
type ControlState int

const (
	// StateClean indicates no merge or rebase in progress
	StateClean ControlState = iota
	// StateMergeInProgress indicates an unfinished merge
	StateMergeInProgress
	// StateRebaseInProgress indicates an unfinished rebase
	StateRebaseInProgress
)

func (s ControlState) String() string {
	switch s {
	case StateMergeInProgress:
		return "merge-in-progress"
	case StateRebaseInProgress:
		return "rebase-in-progress"
	default:
		return "clean"
	}
}

// ResolveControlDir returns the git control directory for a repository.
// It handles the worktree/submodule layout where .git is a file containing a
// "gitdir:" pointer instead of a directory.
func ResolveControlDir(repoPath string) (string, error) {
	gitPath := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return "", fmt.Errorf("not a git repository at %s: %w", repoPath, err)
	}
	if info.IsDir() {
		return gitPath, nil
	}

	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", fmt.Errorf("failed to read gitdir pointer at %s: %w", gitPath, err)
	}
	line := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	target := strings.TrimSpace(strings.TrimPrefix(line, "gitdir:"))
	if target == "" {
		return "", fmt.Errorf("malformed gitdir pointer at %s", gitPath)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(repoPath, target)
	}
	return target, nil
}

// IsMergeInProgress reports whether a merge has started and not concluded.
// Detection is a direct filesystem check, so it is correct regardless of
// which backend started the merge.
func IsMergeInProgress(repoPath string) bool {
	gitDir, err := ResolveControlDir(repoPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(gitDir, "MERGE_HEAD"))
	return err == nil
}

// IsRebaseInProgress reports whether a rebase has started and not concluded.
// The working directories are checked before REBASE_HEAD because they are
// removed promptly on completion.
func IsRebaseInProgress(repoPath string) bool {
	gitDir, err := ResolveControlDir(repoPath)
	if err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-merge")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-apply")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(gitDir, "REBASE_HEAD")); err == nil {
		return true
	}
	return false
}

// ProbeControlState reports the in-flight control state of a repository
func ProbeControlState(repoPath string) ControlState {
	if IsMergeInProgress(repoPath) {
		return StateMergeInProgress
	}
	if IsRebaseInProgress(repoPath) {
		return StateRebaseInProgress
	}
	return StateClean
}
