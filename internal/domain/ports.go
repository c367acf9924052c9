// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
)

// FileManager defines the interface for file operations.
type FileManager interface {
	// FileExists checks if a file exists.
	FileExists(path string) bool

	// EnsureDir creates a directory and all parent directories if they don't exist.
	EnsureDir(path string) error

	// CopyFile copies a file from source to destination.
	CopyFile(src, dest string) error

	// WriteFile writes data to a file.
	WriteFile(path string, data []byte) error

	// WriteFileAtomic writes data to a temporary file and renames it over path.
	WriteFileAtomic(path string, data []byte) error

	// ReadFile reads data from a file.
	ReadFile(path string) ([]byte, error)

	// RemoveFile removes a file.
	RemoveFile(path string) error
}

// PartialDownloadSuffix marks a download that has not been moved into place yet.
const PartialDownloadSuffix = ".part"

// NetworkClient defines the interface for network operations.
type NetworkClient interface {
	// DownloadFile downloads a URL to destPath and returns the number of bytes written.
	// Transport failures wrap ErrNetwork, local write failures wrap ErrIO.
	// A failed download leaves an existing file at destPath untouched.
	DownloadFile(ctx context.Context, url, destPath string) (int64, error)
}

// Process is a launched installer. Wait blocks until it exits.
type Process interface {
	Wait() error
}

// Launcher requests elevated execution of a downloaded installer.
type Launcher interface {
	// RunElevated starts path with administrator privileges and returns without waiting.
	RunElevated(ctx context.Context, path string, args ...string) (Process, error)
}

// FileBrowser opens a directory in the OS file browser.
type FileBrowser interface {
	Open(path string) error
}

// HistoryRecorder persists download attempts.
type HistoryRecorder interface {
	Record(ctx context.Context, entry HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// AppLookup resolves app names against the current catalog.
type AppLookup interface {
	Lookup(name string) (AppEntry, bool)
}
