// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package network downloads installers over HTTP.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/boreapps/bore/internal/domain"
)

// DefaultTimeout bounds connecting and waiting for response headers.
const DefaultTimeout = 30 * time.Second

// HTTPClient implements domain.NetworkClient.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a client whose timeout applies to connecting and
// waiting for headers, not to the body, since installers can be large.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{client: GetHTTPClient(timeout)}
}

// GetHTTPClient returns an HTTP client configured with proxy settings.
// Respects HTTP_PROXY, HTTPS_PROXY, and NO_PROXY environment variables.
func GetHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
		},
	}
}

// DownloadFile downloads url to destPath and returns the number of bytes written.
// The body goes to a partial file next to destPath and is renamed into place only when
// complete, so an earlier download at destPath survives a failed attempt.
func (c *HTTPClient) DownloadFile(ctx context.Context, url, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("invalid download link %q: %w: %w", url, domain.ErrNetwork, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download: %w: %w", domain.ErrNetwork, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: download failed with status %d", domain.ErrNetwork, resp.StatusCode)
	}

	partPath := destPath + domain.PartialDownloadSuffix

	// #nosec G304 -- destPath is built by the sequencer from a sanitized name
	out, err := os.Create(partPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file: %w: %w", domain.ErrIO, err)
	}

	written, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(partPath)

		if copyErr != nil {
			return written, classifyCopyError(copyErr)
		}

		return written, fmt.Errorf("failed to close file: %w: %w", domain.ErrIO, closeErr)
	}

	if err := os.Rename(partPath, destPath); err != nil {
		_ = os.Remove(partPath)

		return written, fmt.Errorf("failed to move download into place: %w: %w", domain.ErrIO, err)
	}

	return written, nil
}

// classifyCopyError separates body read failures from local write failures.
func classifyCopyError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("failed to write file: %w: %w", domain.ErrIO, err)
	}

	return fmt.Errorf("download interrupted: %w: %w", domain.ErrNetwork, err)
}

// MockNetworkClient serves downloads from memory for tests.
type MockNetworkClient struct {
	Files    domain.FileManager
	Payloads map[string][]byte
	Errors   map[string]error

	Requests []string
}

// NewMockNetworkClient creates a mock client that writes through files.
func NewMockNetworkClient(files domain.FileManager) *MockNetworkClient {
	return &MockNetworkClient{
		Files:    files,
		Payloads: make(map[string][]byte),
		Errors:   make(map[string]error),
	}
}

// DownloadFile writes the payload registered for url.
func (m *MockNetworkClient) DownloadFile(ctx context.Context, url, destPath string) (int64, error) {
	m.Requests = append(m.Requests, url)

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}

	if err, ok := m.Errors[url]; ok {
		return 0, err
	}

	payload, ok := m.Payloads[url]
	if !ok {
		return 0, fmt.Errorf("%w: download failed with status %d", domain.ErrNetwork, http.StatusNotFound)
	}

	if err := m.Files.WriteFile(destPath, payload); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	return int64(len(payload)), nil
}
