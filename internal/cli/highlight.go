// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// highlightStyle matches the Tokyo Night palette of the TUI.
const highlightStyle = "tokyonight-night"

// highlightJSON colors a JSON document for the terminal. Unknown tokens and
// lexer failures leave the text as is.
func highlightJSON(source string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return source
	}

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err != nil {
		return source
	}

	var result strings.Builder

	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		if !entry.Colour.IsSet() {
			result.WriteString(token.Value)

			continue
		}

		styled := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Colour.String()))
		if entry.Bold == chroma.Yes {
			styled = styled.Bold(true)
		}

		if entry.Italic == chroma.Yes {
			styled = styled.Italic(true)
		}

		result.WriteString(renderLines(styled, token.Value))
	}

	return result.String()
}

// renderLines styles each line separately so newlines stay outside escape sequences.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}
