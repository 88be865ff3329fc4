// Package fileutil provides the file primitives used when materializing a
// configuration into a shell startup file.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File permissions
const (
	// DirPermission is the default permission for creating directories (rwxr-x---)
	DirPermission = 0750
	// FilePermission is the default permission for creating files (rw-------)
	FilePermission = 0600
)

// EnsureDir creates a directory (and parents) if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirPermission)
}

// ContainsText checks if a file contains the given text.
// Returns false if the file doesn't exist or can't be read.
func ContainsText(filePath string, text string) bool {
	content, err := os.ReadFile(filePath) // #nosec G304 - path resolved by caller
	if err != nil {
		return false
	}
	return strings.Contains(string(content), text)
}

// AppendText appends text to a file, creating it (and its parent directory)
// when missing. The append either completes or fails before the caller
// proceeds; partial writes are not retried.
func AppendText(filePath string, text string) error {
	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, FilePermission) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}
