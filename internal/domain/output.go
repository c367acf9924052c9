// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "time"

// OutputPort defines the interface for presenting command results.
// This is a domain port that adapters implement for different output formats.
type OutputPort interface {
	// Success outputs a success message with optional structured data
	Success(message string, data interface{}) error

	// Error outputs an error message
	Error(message string) error

	// Info outputs an informational message
	Info(message string) error

	// Progress outputs progress information for long-running operations
	Progress(message string) error

	// Table outputs tabular data
	Table(headers []string, rows [][]string) error

	// IsQuiet returns true if output should be suppressed
	IsQuiet() bool
}

// InstallResult represents the outcome of an install run as printed by the CLI.
type InstallResult struct {
	Mode       InstallMode   `json:"mode" yaml:"mode"`
	Downloaded []string      `json:"downloaded" yaml:"downloaded"`
	Launched   []string      `json:"launched,omitempty" yaml:"launched,omitempty"`
	Failed     []string      `json:"failed,omitempty" yaml:"failed,omitempty"`
	Directory  string        `json:"directory" yaml:"directory"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
}

// ListResult represents the catalog grouped by category.
type ListResult struct {
	Categories []CategoryInfo `json:"categories" yaml:"categories"`
	Total      int            `json:"total" yaml:"total"`
}

// CategoryInfo lists the apps of one category.
type CategoryInfo struct {
	Name string     `json:"name" yaml:"name"`
	Apps []AppEntry `json:"apps" yaml:"apps"`
}

// MutationResult represents the outcome of a catalog edit.
type MutationResult struct {
	Action   string `json:"action" yaml:"action"`
	App      string `json:"app,omitempty" yaml:"app,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Message  string `json:"message" yaml:"message"`
}
