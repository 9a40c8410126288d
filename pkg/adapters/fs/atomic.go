package fs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = "herd-tmp-"
)

// WriteFileAtomic replaces filename with data in a single rename, so readers
// (and a Watcher over the same tree) never observe a partially written file.
// A file that already holds data is left untouched, so writing a reconciled
// result back into a watched directory does not trigger another reload.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	if current, err := os.ReadFile(filename); err == nil && bytes.Equal(current, data) {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
