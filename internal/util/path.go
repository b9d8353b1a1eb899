package util

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

const (
	DefaultDirMode  fs.FileMode = 0o755
	DefaultFileMode fs.FileMode = 0o644
)

// PathExists() is a wrapper function that simplifies checking
// if a file or directory already exists at the provided path.
func PathExists(path string) (fs.FileInfo, bool) {
	fi, err := os.Stat(path)
	return fi, !os.IsNotExist(err)
}

// EnsureDirectory() creates the directory at path (and any parents) if it
// does not exist yet. Calling it on an existing directory is a no-op.
func EnsureDirectory(path string) error {
	fi, exists := PathExists(path)
	if exists {
		if fi == nil || !fi.IsDir() {
			return fmt.Errorf("found existing path that is not a directory: %s", path)
		}
		return nil
	}
	if err := os.MkdirAll(path, DefaultDirMode); err != nil {
		return fmt.Errorf("failed to make directory: %w", err)
	}
	return nil
}

// WriteFileAtomic() writes data to a temporary file next to path and renames
// it into place, so readers never observe a half-written file.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDirectory(dir); err != nil {
		return err
	}
	t, err := renameio.TempFile(dir, path)
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	defer func() {
		_ = t.Cleanup()
	}()
	// Set permissions before writing data, in case the data is sensitive.
	if err := t.Chmod(perm); err != nil {
		return err
	}
	w := bufio.NewWriter(t)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
