// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"

	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/tui/styles"
)

// RevertKeyMap defines key bindings for the revert confirmation.
type RevertKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultRevertKeyMap returns the default key bindings.
func DefaultRevertKeyMap() RevertKeyMap {
	return RevertKeyMap{
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "revert")),
		Cancel:  key.NewBinding(key.WithKeys("n", KeyEsc, "q"), key.WithHelp("esc", "cancel")),
	}
}

// RevertConfirm shows what reverting to the default app list would change
// and asks before doing it.
type RevertConfirm struct {
	styles   *styles.Styles
	session  *application.Session
	keyMap   RevertKeyMap
	summary  catalog.DiffSummary
	err      error
	viewport viewport.Model
	width    int
}

// NewRevertConfirm computes the preview with preview, which may be nil.
func NewRevertConfirm(styleConfig *styles.Styles, session *application.Session,
	preview func() (catalog.DiffSummary, error),
) *RevertConfirm {
	model := &RevertConfirm{
		styles:   styleConfig,
		session:  session,
		keyMap:   DefaultRevertKeyMap(),
		viewport: viewport.New(80, 16),
		width:    80,
	}

	if preview != nil {
		model.summary, model.err = preview()
	}

	model.viewport.SetContent(model.renderDiff())

	return model
}

// Identical reports whether reverting would change nothing.
func (m *RevertConfirm) Identical() bool {
	return m.err == nil && m.summary.Identical()
}

func (m *RevertConfirm) renderDiff() string {
	lines := make([]string, 0, len(m.summary.Lines))

	for _, line := range m.summary.Lines {
		switch line.Kind {
		case catalog.DiffInsert:
			lines = append(lines, m.styles.SuccessText.Render("+ "+line.Text))
		case catalog.DiffDelete:
			lines = append(lines, m.styles.ErrorText.Render("- "+line.Text))
		case catalog.DiffEqual:
			lines = append(lines, m.styles.MutedText.Render("  "+line.Text))
		}
	}

	return strings.Join(lines, "\n")
}

// Init implements tea.Model.
func (m *RevertConfirm) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *RevertConfirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 3)

		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Confirm):
			return m, tea.Batch(Notify(m.session.Revert()), Navigate(CatalogScreen, nil))
		case key.Matches(msg, m.keyMap.Cancel):
			return m, Navigate(CatalogScreen, nil)
		}
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// View implements tea.Model.
func (m *RevertConfirm) View() string {
	title := m.styles.Title.Render("Revert to the default app list?")

	var body string

	switch {
	case m.err != nil:
		body = m.styles.ErrorText.Render("Cannot compare with the default app list: " + m.err.Error())
	case m.summary.Identical():
		body = m.styles.MutedText.Render("The app list already matches the default.")
	default:
		summary := m.styles.Subtitle.Render(fmt.Sprintf("%s restored, %s dropped",
			english.Plural(m.summary.Added, "line", ""), english.Plural(m.summary.Removed, "line", "")))
		body = lipgloss.JoinVertical(lipgloss.Left, summary, "", m.viewport.View())
	}

	footer := RenderFooter(m.styles, m.width, m.keyMap.Confirm, m.keyMap.Cancel)

	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}
