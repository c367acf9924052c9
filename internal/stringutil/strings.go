// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package stringutil provides display-width aware string helpers.
package stringutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// ContainsIgnoreCase checks if text contains substr (case-insensitive).
func ContainsIgnoreCase(text, substr string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(substr))
}

// Width returns the number of terminal cells text occupies.
func Width(text string) int {
	return runewidth.StringWidth(text)
}

// Truncate shortens text to at most width cells, ending with an ellipsis when cut.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}

	return runewidth.Truncate(text, width, Ellipsis)
}

// PadRight truncates or pads text with spaces to exactly width cells.
func PadRight(text string, width int) string {
	return runewidth.FillRight(Truncate(text, width), width)
}
