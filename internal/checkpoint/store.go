package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes c to path atomically: readers see the old file or the new
// one, never a partial write.
func Save(path string, c *Checkpoint) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0o644)
}

// Load reads a checkpoint written by Save.
func Load(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// writeFileAtomic writes to a temporary file in the target directory, syncs
// it and renames it into place. The temp file must share a filesystem with
// the target for the rename to be atomic.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmpFile, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
