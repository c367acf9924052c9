// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors.
var (
	ErrStorage          = errors.New("catalog storage error")
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrNetwork          = errors.New("network failure")
	ErrIO               = errors.New("file system error")
	ErrNoPendingStep    = errors.New("no pending install step")
	ErrNothingSelected  = errors.New("no apps selected")
	ErrUnknownMode      = errors.New("unknown install mode")
	ErrMockFileNotFound = errors.New("mock file not found")
)

// StorageError reports an unreadable, malformed or unwritable catalog document.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("catalog %s: %s", e.Path, ErrStorage)
	}

	return fmt.Sprintf("catalog %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// ValidationError reports a missing or invalid user-supplied field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return e.Field + " is required"
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports an app or category that is not in the catalog.
type NotFoundError struct {
	Kind string // "app" or "category"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewStorageError wraps err as a StorageError for path.
func NewStorageError(path string, err error) error {
	return &StorageError{Path: path, Err: err}
}

// NewValidationError creates a ValidationError for a required field.
func NewValidationError(field string) error {
	return &ValidationError{Field: field}
}

// NewAppNotFound creates a NotFoundError for an app name.
func NewAppNotFound(name string) error {
	return &NotFoundError{Kind: "app", Name: name}
}

// NewCategoryNotFound creates a NotFoundError for a category name.
func NewCategoryNotFound(name string) error {
	return &NotFoundError{Kind: "category", Name: name}
}

// ExitError provides specific exit codes for different failure modes.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, verbose bool) ErrorInfo {
	switch {
	case err == nil:
		return ErrorInfo{}
	case errors.Is(err, ErrNetwork):
		return ErrorInfo{
			Message:     "Download failed",
			Suggestions: []string{"Check your internet connection", "Verify the download link still works"},
			ShowDetails: verbose,
		}
	case errors.Is(err, ErrIO):
		return ErrorInfo{
			Message:     "Could not write the installer",
			Suggestions: []string{"Check free disk space and permissions of the download directory"},
			ShowDetails: verbose,
		}
	case errors.Is(err, ErrStorage):
		return ErrorInfo{
			Message:     "Catalog file is unreadable",
			Suggestions: []string{"Check that the catalog path points to a valid JSON document", "Use 'bore revert' to restore the default list"},
			ShowDetails: true,
		}
	case errors.Is(err, ErrNotFound):
		return ErrorInfo{
			Message:     "Not in the catalog",
			Suggestions: []string{"Use 'bore list' to see available apps"},
			ShowDetails: true,
		}
	case errors.Is(err, ErrValidation):
		return ErrorInfo{
			Message:     "Please fill in all fields",
			Suggestions: []string{"Name, icon and download link are required"},
			ShowDetails: true,
		}
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "permission") || strings.Contains(lower, "denied") {
		return ErrorInfo{
			Message:     "Permission denied",
			Suggestions: []string{"Check that your user has admin privileges"},
			ShowDetails: verbose,
		}
	}

	return ErrorInfo{
		Message:     "Operation failed",
		Suggestions: []string{"Run with --verbose for more details"},
		ShowDetails: verbose,
	}
}

// FormatErrorMessage formats an error for display, naming the app when known.
func FormatErrorMessage(err error, appName string, verbose bool) string {
	info := GetErrorInfo(err, verbose)

	var result strings.Builder

	if appName != "" {
		result.WriteString("✗ Failed to install ")
		result.WriteString(appName)

		if info.Message != "" {
			result.WriteString(": ")
			result.WriteString(info.Message)
		}
	} else {
		result.WriteString("✗ ")
		result.WriteString(info.Message)
	}

	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	if len(info.Suggestions) > 0 && !verbose {
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	} else if len(info.Suggestions) > 0 {
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}
