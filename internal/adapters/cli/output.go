// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides output adapters for CLI operations.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/boreapps/bore/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned when an unsupported output format is requested.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// OutputAdapter implements domain.OutputPort for CLI output.
type OutputAdapter struct {
	writer io.Writer
	format OutputFormat
	quiet  bool
}

// OutputFormat represents the output format type.
type OutputFormat int

const (
	// TextFormat outputs human-readable text.
	TextFormat OutputFormat = iota
	// JSONFormat outputs machine-readable JSON.
	JSONFormat
	// YAMLFormat outputs YAML documents.
	YAMLFormat
)

func (f OutputFormat) String() string {
	switch f {
	case JSONFormat:
		return "json"
	case YAMLFormat:
		return "yaml"
	case TextFormat:
		return "text"
	}

	return "unknown"
}

// NewOutputAdapter creates a new output adapter writing to stdout.
func NewOutputAdapter(format OutputFormat, quiet bool) *OutputAdapter {
	return NewOutputAdapterWithWriter(os.Stdout, format, quiet)
}

// NewOutputAdapterWithWriter creates a new output adapter with a custom writer for testing.
func NewOutputAdapterWithWriter(writer io.Writer, format OutputFormat, quiet bool) *OutputAdapter {
	return &OutputAdapter{
		writer: writer,
		format: format,
		quiet:  quiet,
	}
}

// Format returns the configured output format.
func (o *OutputAdapter) Format() OutputFormat {
	return o.format
}

// Structured reports whether results are emitted as documents rather than text.
func (o *OutputAdapter) Structured() bool {
	return o.format != TextFormat
}

// Success outputs a success message with optional structured data.
// Structured data is written even in quiet mode since scripts consume it.
func (o *OutputAdapter) Success(message string, data interface{}) error {
	if o.Structured() && data != nil {
		return o.Document(data)
	}

	if message != "" && !o.quiet {
		_, _ = fmt.Fprintln(o.writer, message)
	}

	return nil
}

// Error outputs an error message.
func (o *OutputAdapter) Error(message string) error {
	if o.quiet {
		return nil
	}

	if o.Structured() {
		return o.Document(map[string]string{"error": message})
	}

	_, _ = fmt.Fprintf(o.writer, "Error: %s\n", message)

	return nil
}

// Info outputs an informational message.
func (o *OutputAdapter) Info(message string) error {
	if o.quiet {
		return nil
	}

	if o.Structured() {
		return o.Document(map[string]string{"info": message})
	}

	_, _ = fmt.Fprintln(o.writer, message)

	return nil
}

// Progress outputs progress lines for long-running operations.
func (o *OutputAdapter) Progress(message string) error {
	if o.quiet || o.Structured() {
		return nil
	}

	_, _ = fmt.Fprintln(o.writer, message)

	return nil
}

// Table outputs tabular data.
func (o *OutputAdapter) Table(headers []string, rows [][]string) error {
	if o.quiet {
		return nil
	}

	if o.Structured() {
		return o.Document(map[string]interface{}{
			"headers": headers,
			"rows":    rows,
		})
	}

	w := tabwriter.NewWriter(o.writer, 0, 0, 2, ' ', 0)

	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))

	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = strings.Repeat("-", len(headers[i]))
	}

	_, _ = fmt.Fprintln(w, strings.Join(separators, "\t"))

	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return nil
}

// Document writes data in the structured format. Text output falls back to JSON.
func (o *OutputAdapter) Document(data interface{}) error {
	if o.format == YAMLFormat {
		encoder := yaml.NewEncoder(o.writer)
		encoder.SetIndent(2)

		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return encoder.Close()
	}

	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	return encoder.Encode(data)
}

// Writer returns the underlying writer.
func (o *OutputAdapter) Writer() io.Writer {
	return o.writer
}

// IsQuiet returns true if output should be suppressed.
func (o *OutputAdapter) IsQuiet() bool {
	return o.quiet
}

// ParseOutputFormat parses a string into an OutputFormat.
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return TextFormat, nil
	case "json":
		return JSONFormat, nil
	case "yaml", "yml":
		return YAMLFormat, nil
	default:
		return TextFormat, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// OutputFromFlags creates an OutputAdapter from the global CLI flags.
func OutputFromFlags(writer io.Writer, jsonFlag, quietFlag bool) *OutputAdapter {
	format := TextFormat
	if jsonFlag {
		format = JSONFormat
	}

	return NewOutputAdapterWithWriter(writer, format, quietFlag)
}

var _ domain.OutputPort = (*OutputAdapter)(nil)
