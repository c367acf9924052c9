// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console formats human and machine output for the bore commands.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// OutputState holds global output configuration.
type OutputState struct {
	Verbose bool
	JSON    bool
	Plain   bool

	mu  sync.Mutex
	out io.Writer
	log io.Writer
}

// DefaultOutput provides output formatting utilities.
var DefaultOutput = &OutputState{} //nolint:gochecknoglobals

// SetMode configures output mode.
func (o *OutputState) SetMode(verbose, json, plain bool) {
	o.Verbose = verbose
	o.JSON = json
	o.Plain = plain
}

// SetLogWriter redirects progress, success, warning and error messages.
// The TUI points this at a log file so the alternate screen stays intact.
func (o *OutputState) SetLogWriter(w io.Writer) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.log = w
}

// SetOutputWriter redirects command results.
func (o *OutputState) SetOutputWriter(w io.Writer) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.out = w
}

func (o *OutputState) logWriter() io.Writer {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.log == nil {
		return os.Stderr
	}

	return o.log
}

func (o *OutputState) outWriter() io.Writer {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.out == nil {
		return os.Stdout
	}

	return o.out
}

// IsTTY checks if output is going to a terminal (not piped/redirected).
func (o *OutputState) IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// ColorEnabled reports whether ANSI styling may be written to stdout.
func (o *OutputState) ColorEnabled() bool {
	if o.JSON || o.Plain {
		return false
	}

	// Check no-color.org standards
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}

	return o.IsTTY(os.Stdout.Fd())
}

// Bold formats text with bold when in TTY, uppercase when piped.
func (o *OutputState) Bold(text string) string {
	if o.JSON || o.Plain {
		return text
	}

	if o.ColorEnabled() {
		return "\033[1m" + text + "\033[0m"
	}

	// Fallback for pipes/redirects - use uppercase
	return strings.ToUpper(text)
}

// Header formats section headers consistently.
func (o *OutputState) Header(text string) string {
	return o.Bold(text)
}

// Progressf writes progress messages to the log (only if verbose and not JSON/Plain).
func (o *OutputState) Progressf(format string, args ...any) {
	if o.Verbose && !o.JSON && !o.Plain {
		_, _ = fmt.Fprintf(o.logWriter(), format+"\n", args...)
	}
}

// Successf writes success messages to the log (only if not JSON/Plain).
func (o *OutputState) Successf(format string, args ...any) {
	if !o.JSON && !o.Plain {
		_, _ = fmt.Fprintf(o.logWriter(), "✓ "+format+"\n", args...)
	}
}

// Warningf writes warning messages to the log (always visible).
func (o *OutputState) Warningf(format string, args ...any) {
	if o.Plain {
		_, _ = fmt.Fprintf(o.logWriter(), "warning: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.logWriter(), "⚠ "+format+"\n", args...)
	}
}

// Errorf writes error messages to the log (always visible).
func (o *OutputState) Errorf(format string, args ...any) {
	if o.Plain {
		_, _ = fmt.Fprintf(o.logWriter(), "error: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.logWriter(), "✗ "+format+"\n", args...)
	}
}

// Result writes command results to stdout (machine-readable primary output).
func (o *OutputState) Result(data any) {
	_, _ = fmt.Fprintf(o.outWriter(), "%v\n", data)
}

// JSONResult writes structured JSON results to stdout.
func (o *OutputState) JSONResult(status string, data map[string]any) {
	result := map[string]any{
		"status": status,
	}
	maps.Copy(result, data)

	if err := json.NewEncoder(o.outWriter()).Encode(result); err != nil {
		// Best effort - output encoding errors shouldn't crash the program
		_, _ = fmt.Fprintf(o.logWriter(), "error encoding JSON: %v\n", err)
	}
}

// ErrorResult outputs error result to stdout (for commands that need to pipe errors).
func (o *OutputState) ErrorResult(err error, code int) {
	if o.JSON {
		o.JSONResult("error", map[string]any{
			"error": err.Error(),
			"code":  code,
		})
	}
	// Error message always goes to the log regardless
	o.Errorf("%s", err.Error())
}

// PlainKeyValue outputs key:value pairs for machine parsing.
func (o *OutputState) PlainKeyValue(key, value string) {
	_, _ = fmt.Fprintf(o.outWriter(), "%s:%s\n", key, value)
}

// PlainList outputs a simple list of items, one per line.
func (o *OutputState) PlainList(items []string) {
	w := o.outWriter()
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s\n", item)
	}
}
