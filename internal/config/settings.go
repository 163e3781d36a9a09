package config

import (
	"os"
	"strconv"

	"gitbridge.dev/gitbridge/internal/git"
)

// Settings is the persisted gitbridge configuration document.
//
// All fields are optional; getters apply defaults so a zero Settings is fully
// usable. The backend flag is deliberately tri-state: nil means "use the
// default", which is the embedded backend.
type Settings struct {
	UseEmbeddedGit *bool  `json:"useEmbeddedGit,omitempty"`
	AuthorName     string `json:"authorName,omitempty"`
	AuthorEmail    string `json:"authorEmail,omitempty"`
	DefaultBranch  string `json:"defaultBranch,omitempty"`
	LogFile        string `json:"logFile,omitempty"`
}

// BackendKind resolves the backend selection flag. The embedded backend is
// the default; the native executable is an explicit opt-in.
func (s Settings) BackendKind() git.Kind {
	if s.UseEmbeddedGit != nil && !*s.UseEmbeddedGit {
		return git.KindNative
	}
	return git.KindEmbedded
}

// Author returns the commit identity, falling back to the application
// identity when unset. Commits never use ambient git configuration.
func (s Settings) Author() git.Signature {
	author := git.DefaultSignature()
	if s.AuthorName != "" {
		author.Name = s.AuthorName
	}
	if s.AuthorEmail != "" {
		author.Email = s.AuthorEmail
	}
	return author
}

// Branch returns the default branch for newly initialized repositories.
func (s Settings) Branch() string {
	if s.DefaultBranch != "" {
		return s.DefaultBranch
	}
	return git.DefaultBranch
}

// applyEnv layers GITBRIDGE_* environment overrides onto a snapshot.
// Environment values win over the persisted document but are never written
// back to it.
func applyEnv(s Settings) Settings {
	if v, ok := os.LookupEnv("GITBRIDGE_EMBEDDED_GIT"); ok {
		if embedded, err := strconv.ParseBool(v); err == nil {
			s.UseEmbeddedGit = &embedded
		}
	}
	if v := os.Getenv("GITBRIDGE_AUTHOR_NAME"); v != "" {
		s.AuthorName = v
	}
	if v := os.Getenv("GITBRIDGE_AUTHOR_EMAIL"); v != "" {
		s.AuthorEmail = v
	}
	if v := os.Getenv("GITBRIDGE_DEFAULT_BRANCH"); v != "" {
		s.DefaultBranch = v
	}
	if v := os.Getenv("GITBRIDGE_LOG_FILE"); v != "" {
		s.LogFile = v
	}
	return s
}
