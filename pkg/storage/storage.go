// All files related functions
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileMode is used for committed files that did not exist before.
const FileMode os.FileMode = 0o644

// CreateTempFile creates a hidden temp file in the same dir as target,
// so the final rename never crosses filesystems.
func CreateTempFile(target string) (*os.File, error) {
	dir := filepath.Dir(target)
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("cannot create dir %s: %w", dir, err)
	}
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return nil, err
	}
	return tmpFile, nil
}

// TempPath reserves a temp file path beside target for writers that need a
// path rather than an open file (ffmpeg).
func TempPath(target string) (string, error) {
	f, err := CreateTempFile(target)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// Commit flushes tmpFile and moves it over filename.
func Commit(tmpFile *os.File, filename string) error {
	err := tmpFile.Sync()
	if err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return err
	}
	err = tmpFile.Close()
	if err != nil {
		_ = os.Remove(tmpFile.Name())
		return err
	}
	return CommitPath(tmpFile.Name(), filename)
}

// CommitPath renames an already closed temp file over filename. The result
// keeps the permissions of the file it replaces, 0644 for a new one.
func CommitPath(tmpPath, filename string) error {
	mode := FileMode
	if info, err := os.Stat(filename); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	err := os.Rename(tmpPath, filename)
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cannot move %s to %s: %w", tmpPath, filename, err)
	}
	return nil
}

// Discard closes and removes a temp file, ignoring errors.
func Discard(tmpFile *os.File) {
	_ = tmpFile.Close()
	_ = os.Remove(tmpFile.Name())
}

// Size returns the file size, 0 when it cannot be read.
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
