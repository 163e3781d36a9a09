package git

import (
	"regexp"
	"strings"
)

// MaxBranchNameByteLength caps generated branch names well under git's ref
// length limits
const MaxBranchNameByteLength = 234

var (
	// branchNameReplace matches characters that are not valid in branch names
	branchNameReplace = regexp.MustCompile(`[^-_/.a-zA-Z0-9]+`)

	// branchNameTrailing matches trailing slashes and dots that git rejects
	branchNameTrailing = regexp.MustCompile(`[/.]*$`)

	collapseHyphens = regexp.MustCompile(`-+`)
)

// SanitizeBranchName turns arbitrary text (an app name, a commit subject)
// into a valid git branch name. Invalid characters become hyphens, runs of
// hyphens collapse, and the result is length-capped.
func SanitizeBranchName(name string) string {
	name = branchNameTrailing.ReplaceAllString(name, "")
	name = branchNameReplace.ReplaceAllString(name, "-")
	name = collapseHyphens.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	if len(name) > MaxBranchNameByteLength {
		name = name[:MaxBranchNameByteLength]
		name = strings.TrimSuffix(name, "-")
	}

	return name
}
