package git

import (
	"context"
	"fmt"
	"sync"
)

// safeDirMu serializes reads and writes of the global safe.directory list.
// The list is process-wide state in the user's global git configuration, so
// concurrent registrations from different repositories must not interleave.
var safeDirMu sync.Mutex

// RegisterSafeDirectory appends path to the system git installation's global
// safe.directory allow-list so external git invocations against the
// repository do not fail ownership checks. Existing entries are read first
// and the write is skipped when the path is already present, keeping the
// list from growing across repeated calls.
//
// This configures the git executable and is therefore inherently a native
// operation; the embedded backend never consults the allow-list.
func RegisterSafeDirectory(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("cannot register empty path as safe directory")
	}

	safeDirMu.Lock()
	defer safeDirMu.Unlock()

	runner := NewCommandRunner("")

	// git config --get-all exits non-zero when the key is unset; treat any
	// read failure as an empty list and proceed to the write.
	existing, err := runner.RunLines(ctx, "config", "--global", "--get-all", "safe.directory")
	if err == nil {
		for _, entry := range existing {
			if entry == path {
				return nil
			}
		}
	}

	if _, err := runner.Run(ctx, "config", "--global", "--add", "safe.directory", path); err != nil {
		return fmt.Errorf("failed to register safe directory %s: %w", path, err)
	}
	return nil
}
