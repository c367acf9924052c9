// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/toqueteos/webbrowser"
)

// Browser opens directories in the desktop file browser.
type Browser struct {
	open func(string) error
}

// NewBrowser creates a browser backed by the system URL handler.
func NewBrowser() *Browser {
	return &Browser{open: webbrowser.Open}
}

// NewBrowserWith creates a browser that hands file:// URLs to open.
func NewBrowserWith(open func(string) error) *Browser {
	return &Browser{open: open}
}

// Open shows path in the file browser.
func (b *Browser) Open(path string) error {
	target, err := FileURL(path)
	if err != nil {
		return err
	}

	if err := b.open(target); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	return nil
}

// FileURL converts a local path into an absolute file:// URL.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		// Windows drive paths become file:///C:/...
		slashed = "/" + slashed
	}

	return (&url.URL{Scheme: "file", Path: slashed}).String(), nil
}

// MockBrowser records opened paths for testing.
type MockBrowser struct {
	mu     sync.Mutex
	opened []string

	Err error
}

// NewMockBrowser creates a new mock browser.
func NewMockBrowser() *MockBrowser {
	return &MockBrowser{}
}

// Open records path.
func (m *MockBrowser) Open(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.opened = append(m.opened, path)

	return nil
}

// Opened returns the opened paths in order.
func (m *MockBrowser) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.opened...)
}
