package persistence

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDataDir creates the roster data directory if it does not exist and
// verifies it is writable, so storage failures show up at startup rather
// than on the first save.
func EnsureDataDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}

	probe := filepath.Join(abs, ".write_check")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		return "", fmt.Errorf("data dir is not writable: %w", err)
	}
	os.Remove(probe)

	return abs, nil
}
