// Package engine is the synchronization facade over the dual git backends.
//
// It is the entry point for everything the surrounding application does to a
// repository, responsible for:
//   - Resolving the backend per call from live settings
//   - Serializing mutations per repository through the lock registry
//   - Refusing mutations that would pile onto an unfinished merge or rebase
//   - Wrapping failures with operation context before they reach callers
//   - The branch preparation protocol used when creating a repository or
//     connecting it to a remote
//
// Read operations are lock-free and eventually consistent. Mutating
// operations against the same repository queue behind one another and never
// interleave; different repositories proceed in parallel.
package engine
