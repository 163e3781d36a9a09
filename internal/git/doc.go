// Package git implements the dual-backend git operation set.
//
// Every operation is available through two interchangeable backends:
//   - the native backend shells out to the system git executable
//   - the embedded backend operates on repository storage in-process via go-git
//
// Callers select a backend with New and otherwise never see which one ran.
// Remote and merge/rebase failures are classified into the error classes
// defined in internal/errors before they are returned.
//
// This package should be the only place where git commands are executed or
// repository storage is touched directly.
package git
