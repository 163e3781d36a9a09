// Package errors provides sentinel errors and custom error types for the gitbridge engine.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the error classes surfaced by the engine
var (
	// ErrConflict indicates that an operation stopped on conflicting changes
	ErrConflict = errors.New("conflict")

	// ErrMissingRemoteRef indicates that a remote ref does not exist
	ErrMissingRemoteRef = errors.New("remote ref not found")

	// ErrUnauthorized indicates that the remote rejected the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetworkUnreachable indicates that the remote could not be reached
	ErrNetworkUnreachable = errors.New("network unreachable")

	// ErrUnsupportedCapability indicates that the selected backend cannot
	// perform the requested operation
	ErrUnsupportedCapability = errors.New("unsupported capability")

	// ErrOperationInProgress indicates that a merge or rebase is already in
	// flight in the repository
	ErrOperationInProgress = errors.New("operation in progress")
)

// Sentinel errors for common repository conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrDirtyWorktree indicates that the worktree has uncommitted changes
	ErrDirtyWorktree = errors.New("worktree has uncommitted changes")

	// ErrNoMergeInProgress indicates that no merge is currently in progress
	ErrNoMergeInProgress = errors.New("no merge in progress")

	// ErrNoRebaseInProgress indicates that no rebase is currently in progress
	ErrNoRebaseInProgress = errors.New("no rebase in progress")
)

// Class identifies the classification bucket an error falls into.
type Class int

const (
	ClassUnclassified Class = iota
	ClassConflict
	ClassMissingRemoteRef
	ClassUnauthorized
	ClassNetworkUnreachable
	ClassUnsupportedCapability
	ClassOperationInProgress
)

func (c Class) String() string {
	switch c {
	case ClassConflict:
		return "conflict"
	case ClassMissingRemoteRef:
		return "missing-remote-ref"
	case ClassUnauthorized:
		return "unauthorized"
	case ClassNetworkUnreachable:
		return "network-unreachable"
	case ClassUnsupportedCapability:
		return "unsupported-capability"
	case ClassOperationInProgress:
		return "operation-in-progress"
	default:
		return "unclassified"
	}
}

// ClassOf reports which classification bucket err belongs to. Errors that
// match none of the class sentinels are ClassUnclassified.
func ClassOf(err error) Class {
	switch {
	case errors.Is(err, ErrConflict):
		return ClassConflict
	case errors.Is(err, ErrMissingRemoteRef):
		return ClassMissingRemoteRef
	case errors.Is(err, ErrUnauthorized):
		return ClassUnauthorized
	case errors.Is(err, ErrNetworkUnreachable):
		return ClassNetworkUnreachable
	case errors.Is(err, ErrUnsupportedCapability):
		return ClassUnsupportedCapability
	case errors.Is(err, ErrOperationInProgress):
		return ClassOperationInProgress
	default:
		return ClassUnclassified
	}
}

// ConflictError represents an operation that stopped on conflicting changes
type ConflictError struct {
	Op    string
	Files []string
	Err   error
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s conflict", e.Op)
	if len(e.Files) > 0 {
		msg += fmt.Sprintf(" in %s", strings.Join(e.Files, ", "))
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// NewConflictError creates a new ConflictError
func NewConflictError(op string, files []string, err error) *ConflictError {
	return &ConflictError{Op: op, Files: files, Err: err}
}

// MissingRemoteRefError represents a reference that does not exist on the remote
type MissingRemoteRefError struct {
	Remote string
	Ref    string
	Err    error
}

func (e *MissingRemoteRefError) Error() string {
	msg := fmt.Sprintf("remote ref %s not found", e.Ref)
	if e.Remote != "" {
		msg = fmt.Sprintf("remote ref %s not found on %s", e.Ref, e.Remote)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrMissingRemoteRef
func (e *MissingRemoteRefError) Is(target error) bool {
	return target == ErrMissingRemoteRef
}

func (e *MissingRemoteRefError) Unwrap() error {
	return e.Err
}

// NewMissingRemoteRefError creates a new MissingRemoteRefError
func NewMissingRemoteRefError(remote, ref string, err error) *MissingRemoteRefError {
	return &MissingRemoteRefError{Remote: remote, Ref: ref, Err: err}
}

// UnauthorizedError represents credentials rejected by a remote
type UnauthorizedError struct {
	Remote string
	Err    error
}

func (e *UnauthorizedError) Error() string {
	msg := "authentication failed"
	if e.Remote != "" {
		msg = fmt.Sprintf("authentication failed for %s", e.Remote)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrUnauthorized
func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

func (e *UnauthorizedError) Unwrap() error {
	return e.Err
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(remote string, err error) *UnauthorizedError {
	return &UnauthorizedError{Remote: remote, Err: err}
}

// NetworkError represents a remote that could not be reached
type NetworkError struct {
	Remote string
	Err    error
}

func (e *NetworkError) Error() string {
	msg := "network unreachable"
	if e.Remote != "" {
		msg = fmt.Sprintf("could not reach %s", e.Remote)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrNetworkUnreachable
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetworkUnreachable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(remote string, err error) *NetworkError {
	return &NetworkError{Remote: remote, Err: err}
}

// UnsupportedCapabilityError represents an operation the selected backend cannot perform
type UnsupportedCapabilityError struct {
	Backend    string
	Capability string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("%s backend does not support %s", e.Backend, e.Capability)
}

// Is returns true if the target error is ErrUnsupportedCapability
func (e *UnsupportedCapabilityError) Is(target error) bool {
	return target == ErrUnsupportedCapability
}

// NewUnsupportedCapabilityError creates a new UnsupportedCapabilityError
func NewUnsupportedCapabilityError(backend, capability string) *UnsupportedCapabilityError {
	return &UnsupportedCapabilityError{Backend: backend, Capability: capability}
}

// OperationInProgressError represents a merge or rebase already in flight
type OperationInProgressError struct {
	State string
	Op    string
}

func (e *OperationInProgressError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("cannot %s: %s in progress", e.Op, e.State)
	}
	return fmt.Sprintf("%s in progress", e.State)
}

// Is returns true if the target error is ErrOperationInProgress
func (e *OperationInProgressError) Is(target error) bool {
	return target == ErrOperationInProgress
}

// NewOperationInProgressError creates a new OperationInProgressError
func NewOperationInProgressError(state, op string) *OperationInProgressError {
	return &OperationInProgressError{State: state, Op: op}
}

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
