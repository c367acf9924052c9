// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/boreapps/bore/internal/domain"
)

func TestOutputAdapter_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		format       OutputFormat
		quiet        bool
		message      string
		data         any
		wantContains string
		wantEmpty    bool
	}{
		{
			name:         "text format with message",
			format:       TextFormat,
			message:      "Added Zoom to Chat",
			wantContains: "Added Zoom to Chat",
		},
		{
			name:      "quiet mode suppresses message",
			format:    TextFormat,
			quiet:     true,
			message:   "Added Zoom to Chat",
			wantEmpty: true,
		},
		{
			name:    "JSON format with data",
			format:  JSONFormat,
			message: "ignored",
			data: domain.InstallResult{
				Mode:       domain.ModeSkip,
				Downloaded: []string{"Zoom", "Discord"},
				Duration:   5 * time.Second,
			},
			wantContains: `"downloaded"`,
		},
		{
			name:         "quiet JSON still emits data",
			format:       JSONFormat,
			quiet:        true,
			data:         domain.MutationResult{Action: "remove", App: "Zoom"},
			wantContains: `"remove"`,
		},
		{
			name:         "JSON format without data shows message",
			format:       JSONFormat,
			message:      "Nothing to do",
			wantContains: "Nothing to do",
		},
		{
			name:         "YAML format with data",
			format:       YAMLFormat,
			data:         domain.MutationResult{Action: "add", App: "Zoom", Category: "Chat"},
			wantContains: "category: Chat",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			adapter := NewOutputAdapterWithWriter(&buf, testCase.format, testCase.quiet)
			require.NoError(t, adapter.Success(testCase.message, testCase.data))

			if testCase.wantEmpty {
				assert.Empty(t, buf.String())

				return
			}

			assert.Contains(t, buf.String(), testCase.wantContains)

			if testCase.format == JSONFormat && testCase.data != nil {
				var result map[string]any
				assert.NoError(t, json.Unmarshal(buf.Bytes(), &result))
			}
		})
	}
}

func TestOutputAdapter_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		format       OutputFormat
		quiet        bool
		wantContains string
		wantEmpty    bool
	}{
		{"text format shows error prefix", TextFormat, false, "Error: download failed", false},
		{"quiet mode suppresses error", TextFormat, true, "", true},
		{"JSON format wraps error", JSONFormat, false, `"error"`, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			adapter := NewOutputAdapterWithWriter(&buf, testCase.format, testCase.quiet)
			require.NoError(t, adapter.Error("download failed"))

			if testCase.wantEmpty {
				assert.Empty(t, buf.String())

				return
			}

			assert.Contains(t, buf.String(), testCase.wantContains)

			if testCase.format == JSONFormat {
				var result map[string]string
				require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
				assert.Equal(t, "download failed", result["error"])
			}
		})
	}
}

func TestOutputAdapter_Table(t *testing.T) {
	t.Parallel()

	headers := []string{"Name", "Category", "URL"}
	rows := [][]string{
		{"Discord", "Chat", "https://discord.com/setup.exe"},
		{"Steam", "Games", "https://steampowered.com/setup.exe"},
	}

	t.Run("text format creates aligned table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, NewOutputAdapterWithWriter(&buf, TextFormat, false).Table(headers, rows))

		output := buf.String()
		assert.Contains(t, output, "Name")
		assert.Contains(t, output, "Discord")
		assert.Contains(t, output, "----")
	})

	t.Run("JSON format outputs structured data", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, NewOutputAdapterWithWriter(&buf, JSONFormat, false).Table(headers, rows))

		var result map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))

		resultRows, ok := result["rows"].([]any)
		require.True(t, ok, "rows should be []any")
		assert.Len(t, resultRows, 2)
	})

	t.Run("quiet mode suppresses table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, NewOutputAdapterWithWriter(&buf, TextFormat, true).Table(headers, rows))
		assert.Empty(t, buf.String())
	})
}

func TestOutputAdapter_Progress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		format    OutputFormat
		quiet     bool
		wantEmpty bool
	}{
		{"text shows progress", TextFormat, false, false},
		{"JSON suppresses progress", JSONFormat, false, true},
		{"quiet suppresses progress", TextFormat, true, true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			adapter := NewOutputAdapterWithWriter(&buf, testCase.format, testCase.quiet)
			require.NoError(t, adapter.Progress("Downloading Zoom (1/2)"))

			if testCase.wantEmpty {
				assert.Empty(t, buf.String())
			} else {
				assert.Equal(t, "Downloading Zoom (1/2)\n", buf.String())
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"", TextFormat, false},
		{"text", TextFormat, false},
		{"JSON", JSONFormat, false},
		{"yaml", YAMLFormat, false},
		{"yml", YAMLFormat, false},
		{"xml", TextFormat, true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOutputFormat(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestOutputFromFlags(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	assert.Equal(t, TextFormat, OutputFromFlags(&buf, false, false).Format())
	assert.Equal(t, JSONFormat, OutputFromFlags(&buf, true, false).Format())
	assert.True(t, OutputFromFlags(&buf, false, true).IsQuiet())
}

func TestOutputAdapter_ListDocument(t *testing.T) {
	t.Parallel()

	result := domain.ListResult{
		Categories: []domain.CategoryInfo{
			{Name: "Chat", Apps: []domain.AppEntry{{Name: "Discord", URL: "https://d/setup.exe", Icon: "discord.png", Category: "Chat"}}},
		},
		Total: 1,
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, NewOutputAdapterWithWriter(&buf, JSONFormat, false).Document(result))

		var decoded domain.ListResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, result, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, NewOutputAdapterWithWriter(&buf, YAMLFormat, false).Document(result))

		var decoded domain.ListResult
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, result, decoded)
		assert.Contains(t, buf.String(), "name: Discord")
	})
}
