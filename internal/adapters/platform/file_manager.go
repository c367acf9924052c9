// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform provides the file system and OS integration adapters.
package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
)

// FileManager implements the FileManager port for real file operations.
type FileManager struct {
	verbose bool
}

// NewFileManager creates a new file manager.
func NewFileManager(verbose bool) *FileManager {
	return &FileManager{
		verbose: verbose,
	}
}

func (f *FileManager) logf(format string, args ...any) {
	if f.verbose {
		console.DefaultOutput.Progressf(format, args...)
	}
}

// FileExists checks if a file exists.
func (f *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
func (f *FileManager) EnsureDir(path string) error {
	f.logf("Ensuring directory exists: %s", path)

	// #nosec G301 - Standard directory permissions for application directories
	return os.MkdirAll(path, 0755)
}

// CopyFile copies a file from source to destination.
func (f *FileManager) CopyFile(src, dest string) error {
	f.logf("Copying file: %s -> %s", src, dest)

	if err := f.EnsureDir(filepath.Dir(dest)); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	// #nosec G304 - File path is chosen by the user
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}

	defer func() { _ = srcFile.Close() }()

	// #nosec G304 - Destination lives in the configured icons directory
	destFile, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	defer func() { _ = destFile.Close() }()

	if _, err = io.Copy(destFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	return destFile.Sync()
}

// WriteFile writes data to a file.
func (f *FileManager) WriteFile(path string, data []byte) error {
	f.logf("Writing file: %s (%d bytes)", path, len(data))

	if err := f.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// #nosec G306 - The catalog is a user document
	return os.WriteFile(path, data, 0644)
}

// WriteFileAtomic writes data next to path and renames it into place,
// so readers never observe a truncated document.
func (f *FileManager) WriteFileAtomic(path string, data []byte) error {
	f.logf("Writing file atomically: %s (%d bytes)", path, len(data))

	dir := filepath.Dir(path)
	if err := f.EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	// #nosec G302 - Match the permissions WriteFile uses
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	committed = true

	return nil
}

// ReadFile reads data from a file.
func (f *FileManager) ReadFile(path string) ([]byte, error) {
	f.logf("Reading file: %s", path)

	// #nosec G304 - File path comes from configuration
	return os.ReadFile(path)
}

// RemoveFile removes a file.
func (f *FileManager) RemoveFile(path string) error {
	f.logf("Removing file: %s", path)

	return os.Remove(path)
}

// MockFileManager implements the FileManager port for testing.
type MockFileManager struct {
	mu      sync.Mutex
	files   map[string][]byte // path -> content
	dirs    map[string]bool
	verbose bool

	// WriteErr, when set, fails every write.
	WriteErr error
}

// NewMockFileManager creates a new mock file manager for testing.
func NewMockFileManager(verbose bool) *MockFileManager {
	return &MockFileManager{
		files:   make(map[string][]byte),
		dirs:    make(map[string]bool),
		verbose: verbose,
	}
}

func (f *MockFileManager) logf(format string, args ...any) {
	if f.verbose {
		console.DefaultOutput.Progressf("MOCK: "+format, args...)
	}
}

// SetMockFile sets the content of a mock file.
func (f *MockFileManager) SetMockFile(path string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.files[path] = content
}

// Files returns the paths of every mock file.
func (f *MockFileManager) Files() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	paths := make([]string, 0, len(f.files))
	for path := range f.files {
		paths = append(paths, path)
	}

	return paths
}

// FileExists checks if a mock file or directory exists.
func (f *MockFileManager) FileExists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, exists := f.files[path]

	return exists || f.dirs[path]
}

// EnsureDir records the directory.
func (f *MockFileManager) EnsureDir(path string) error {
	f.logf("Ensuring directory: %s", path)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.dirs[path] = true

	return nil
}

// CopyFile copies between mock files.
func (f *MockFileManager) CopyFile(src, dest string) error {
	f.logf("Copying %s -> %s", src, dest)

	f.mu.Lock()
	defer f.mu.Unlock()

	content, exists := f.files[src]
	if !exists {
		return domain.ErrMockFileNotFound
	}

	f.files[dest] = content

	return nil
}

// WriteFile writes to a mock file.
func (f *MockFileManager) WriteFile(path string, data []byte) error {
	f.logf("Writing file %s (%d bytes)", path, len(data))

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.WriteErr != nil {
		return f.WriteErr
	}

	f.files[path] = append([]byte(nil), data...)

	return nil
}

// WriteFileAtomic writes to a mock file.
func (f *MockFileManager) WriteFileAtomic(path string, data []byte) error {
	return f.WriteFile(path, data)
}

// ReadFile reads from a mock file.
func (f *MockFileManager) ReadFile(path string) ([]byte, error) {
	f.logf("Reading file %s", path)

	f.mu.Lock()
	defer f.mu.Unlock()

	content, exists := f.files[path]
	if !exists {
		return nil, domain.ErrMockFileNotFound
	}

	return content, nil
}

// RemoveFile removes a mock file.
func (f *MockFileManager) RemoveFile(path string) error {
	f.logf("Removing file %s", path)

	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.files, path)

	return nil
}
