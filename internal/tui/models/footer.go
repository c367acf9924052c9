// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/boreapps/bore/internal/tui/styles"
)

// RenderFooter renders the key hints of bindings in one bordered line.
// Disabled bindings are left out.
func RenderFooter(styleConfig *styles.Styles, width int, bindings ...key.Binding) string {
	hints := make([]string, 0, len(bindings))

	for _, binding := range bindings {
		if !binding.Enabled() {
			continue
		}

		help := binding.Help()
		hints = append(hints, styleConfig.Keybinding(help.Key, help.Desc))
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(styleConfig.Muted)

	if width > 0 {
		style = style.Width(width)
	}

	return style.Render(strings.Join(hints, "  "))
}
