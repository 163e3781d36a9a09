// Package config manages gitbridge settings persistence.
//
// It handles:
//   - The process-wide settings document (backend flag, author identity,
//     default branch, log file location)
//   - Environment variable overrides (GITBRIDGE_*)
//   - The live Store re-read by the engine on every operation
package config
