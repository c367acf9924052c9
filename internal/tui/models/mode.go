// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/domain"
	"github.com/boreapps/bore/internal/tui/styles"
)

// ModeKeyMap defines key bindings for the mode picker.
type ModeKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Back   key.Binding
}

// DefaultModeKeyMap returns the default key bindings.
func DefaultModeKeyMap() ModeKeyMap {
	return ModeKeyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Choose: key.NewBinding(key.WithKeys(KeyEnter, " "), key.WithHelp("enter", "use mode")),
		Back:   key.NewBinding(key.WithKeys(KeyEsc, "q"), key.WithHelp("esc", "back")),
	}
}

// ModePicker lets the user choose the install mode, explaining each one.
type ModePicker struct {
	styles  *styles.Styles
	session *application.Session
	keyMap  ModeKeyMap
	modes   []domain.InstallMode
	cursor  int
	width   int
}

// NewModePicker creates the picker with the session's mode highlighted.
func NewModePicker(styleConfig *styles.Styles, session *application.Session) *ModePicker {
	modes := domain.Modes()

	return &ModePicker{
		styles:  styleConfig,
		session: session,
		keyMap:  DefaultModeKeyMap(),
		modes:   modes,
		cursor:  max(slices.Index(modes, session.Mode()), 0),
		width:   80,
	}
}

// Highlighted returns the mode under the cursor.
func (m *ModePicker) Highlighted() domain.InstallMode {
	return m.modes[m.cursor]
}

// Init implements tea.Model.
func (m *ModePicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ModePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Up):
			m.cursor = max(m.cursor-1, 0)
		case key.Matches(msg, m.keyMap.Down):
			m.cursor = min(m.cursor+1, len(m.modes)-1)
		case key.Matches(msg, m.keyMap.Choose):
			mode := m.Highlighted()
			m.session.SetMode(mode)

			return m, tea.Batch(
				Notify(m.session.Info("Install mode: "+application.ModeLabel(mode))),
				Navigate(CatalogScreen, nil),
			)
		case key.Matches(msg, m.keyMap.Back):
			return m, Navigate(CatalogScreen, nil)
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m *ModePicker) View() string {
	lines := make([]string, 0, len(m.modes))

	for i, mode := range m.modes {
		marker := "( )"
		if mode == m.session.Mode() {
			marker = "(•)"
		}

		label := marker + " " + application.ModeLabel(mode)

		if i == m.cursor {
			lines = append(lines, m.styles.Cursor.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}

	cardWidth := max(min(m.width-4, maxFormWidth), 20)
	explanation := m.styles.Card.Width(cardWidth).Render(application.ModeExplanation(m.Highlighted()))

	footer := RenderFooter(m.styles, m.width, m.keyMap.Up, m.keyMap.Down, m.keyMap.Choose, m.keyMap.Back)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Install mode"),
		strings.Join(lines, "\n"),
		"",
		explanation,
		footer,
	)
}
