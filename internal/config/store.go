package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Source provides the settings snapshot the engine reads on every operation.
// Reading per call (instead of caching) lets the surrounding application flip
// the backend at runtime without restarting anything.
type Source interface {
	Current() Settings
}

// Static is a Source that always returns the same snapshot. It ignores
// environment overrides, which keeps tests deterministic.
type Static struct {
	Settings Settings
}

// Current returns the wrapped snapshot.
func (s Static) Current() Settings {
	return s.Settings
}

// Store is the live settings source backed by a JSON document on disk.
// Reads and writes are guarded so concurrent operations observe a consistent
// snapshot.
type Store struct {
	mu       sync.RWMutex
	path     string
	settings Settings
}

// DefaultPath returns the settings document location under the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, "gitbridge", "settings.json"), nil
}

// Open loads the settings document at path, or starts from defaults when the
// document does not exist yet. A document that exists but cannot be parsed is
// an error; silently discarding someone's settings is worse than failing.
func Open(path string) (*Store, error) {
	store := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &store.settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings at %s: %w", path, err)
	}
	return store, nil
}

// Current returns the settings snapshot with environment overrides applied.
func (st *Store) Current() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return applyEnv(st.settings)
}

// Update mutates the settings under the store lock and persists the result.
// The document on disk never contains environment overrides.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	updated := st.settings
	fn(&updated)

	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	if err := os.WriteFile(st.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	st.settings = updated
	return nil
}

// Path returns the backing document location.
func (st *Store) Path() string {
	return st.path
}
