package git

import (
	"errors"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	bridgeerrors "gitbridge.dev/gitbridge/internal/errors"
)

// PatternMatcher checks whether a string contains any of a list of patterns.
// Matching is case-insensitive on the lowercased input.
type PatternMatcher struct {
	patterns []string
}

// NewPatternMatcher creates a PatternMatcher. Patterns must be lowercase.
func NewPatternMatcher(patterns ...string) *PatternMatcher {
	return &PatternMatcher{patterns: patterns}
}

// Matches returns true if the input contains any of the patterns
func (m *PatternMatcher) Matches(s string) bool {
	lower := strings.ToLower(s)
	for _, pattern := range m.patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// Failure patterns shared by both backends. The native backend surfaces
// these through stderr; the embedded backend through error messages.
var (
	conflictPatterns = NewPatternMatcher(
		"conflict",
		"unmerged",
		"needs merge",
		"not possible because you have unmerged files",
		"automatic merge failed",
	)

	missingRemoteRefPatterns = NewPatternMatcher(
		"couldn't find remote ref",
		"remote ref does not exist",
		"no such ref",
		"unknown revision or path",
		"src refspec",
		"remote repository is empty",
	)

	unauthorizedPatterns = NewPatternMatcher(
		"authentication failed",
		"authentication required",
		"could not read username",
		"could not read password",
		"invalid username or password",
		"permission denied",
		"access denied",
		"bad credentials",
		"401",
		"403",
		"authorization failed",
	)

	networkPatterns = NewPatternMatcher(
		"could not resolve host",
		"unable to access",
		"connection refused",
		"connection timed out",
		"operation timed out",
		"network is unreachable",
		"no route to host",
		"failed to connect",
		"connection reset",
		"dial tcp",
	)
)

// ClassifyOutput buckets raw failure text by substring matching alone,
// without consulting repository state. Order matters: credential failures
// are checked before network failures because proxy errors often mention
// both, and conflicts are checked last as the most generic wording.
func ClassifyOutput(s string) bridgeerrors.Class {
	switch {
	case missingRemoteRefPatterns.Matches(s):
		return bridgeerrors.ClassMissingRemoteRef
	case unauthorizedPatterns.Matches(s):
		return bridgeerrors.ClassUnauthorized
	case networkPatterns.Matches(s):
		return bridgeerrors.ClassNetworkUnreachable
	case conflictPatterns.Matches(s):
		return bridgeerrors.ClassConflict
	default:
		return bridgeerrors.ClassUnclassified
	}
}

// classify turns a backend failure into a classified error.
//
// The repository state prober takes precedence for conflict detection: if
// the failed operation left a merge or rebase marker behind, the error is a
// conflict no matter what the message says. Typed go-git transport errors
// are mapped next, then message substrings. Errors that are already
// classified, and errors that match nothing, pass through unchanged.
func classify(repoPath, op string, err error) error {
	if err == nil {
		return nil
	}

	if bridgeerrors.ClassOf(err) != bridgeerrors.ClassUnclassified {
		return err
	}

	if state := ProbeControlState(repoPath); state != StateClean {
		return bridgeerrors.NewConflictError(op, nil, err)
	}

	if errors.Is(err, transport.ErrAuthenticationRequired) || errors.Is(err, transport.ErrAuthorizationFailed) {
		return bridgeerrors.NewUnauthorizedError("", err)
	}
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return bridgeerrors.NewMissingRemoteRefError("", "", err)
	}

	switch ClassifyOutput(err.Error()) {
	case bridgeerrors.ClassMissingRemoteRef:
		return bridgeerrors.NewMissingRemoteRefError("", "", err)
	case bridgeerrors.ClassUnauthorized:
		return bridgeerrors.NewUnauthorizedError("", err)
	case bridgeerrors.ClassNetworkUnreachable:
		return bridgeerrors.NewNetworkError("", err)
	case bridgeerrors.ClassConflict:
		return bridgeerrors.NewConflictError(op, nil, err)
	default:
		return err
	}
}
