// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsIgnoreCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		substr   string
		expected bool
	}{
		{"Visual Studio Code", "studio", true},
		{"Discord", "DIS", true},
		{"Discord", "steam", false},
		{"", "", true},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.expected, ContainsIgnoreCase(testCase.text, testCase.substr), "%q in %q", testCase.substr, testCase.text)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "Zoom", 10, "Zoom"},
		{"exact", "Zoom", 4, "Zoom"},
		{"cut", "Visual Studio Code", 8, "Visual …"},
		{"wide runes", "日本語アプリ", 5, "日本…"},
		{"zero width", "Zoom", 0, ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := Truncate(testCase.text, testCase.width)
			assert.Equal(t, testCase.want, got)
			assert.LessOrEqual(t, Width(got), max(testCase.width, 0))
		})
	}
}

func TestPadRight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Zoom  ", PadRight("Zoom", 6))
	assert.Equal(t, "日本  ", PadRight("日本", 6))
	assert.Equal(t, 6, Width(PadRight("Visual Studio Code", 6)))
}
