// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/domain"
	"github.com/boreapps/bore/internal/tui/styles"
)

const maxFormWidth = 72

// EditorKind selects what the editor form changes.
type EditorKind int

// Editor kinds.
const (
	EditorAddApp EditorKind = iota
	EditorEditApp
	EditorAddCategory
)

// EditorData is the NavigateMsg payload for EditorScreen.
type EditorData struct {
	Kind       EditorKind
	Entry      domain.AppEntry
	Categories []string
}

// Editor is a huh form for adding or editing an app, or adding a category.
type Editor struct {
	styles  *styles.Styles
	session *application.Session
	data    EditorData

	entry    domain.AppEntry
	iconFile string
	category string

	form *huh.Form
	done bool
}

// NewEditor creates the form described by data.
func NewEditor(styleConfig *styles.Styles, session *application.Session, data EditorData) *Editor {
	model := &Editor{
		styles:  styleConfig,
		session: session,
		data:    data,
		entry:   data.Entry,
	}

	keyMap := huh.NewDefaultKeyMap()
	keyMap.Quit = key.NewBinding(key.WithKeys(KeyEsc), key.WithHelp("esc", "cancel"))

	model.form = huh.NewForm(model.group()).
		WithTheme(huh.ThemeCharm()).
		WithKeyMap(keyMap).
		WithShowHelp(true).
		WithWidth(maxFormWidth)

	return model
}

func notBlank(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New(label + " is required")
		}

		return nil
	}
}

func (m *Editor) group() *huh.Group {
	if m.data.Kind == EditorAddCategory {
		return huh.NewGroup(
			huh.NewInput().
				Title("Category name").
				Validate(notBlank("category name")).
				Value(&m.category),
		).Title("New category")
	}

	var fields []huh.Field

	if m.data.Kind == EditorAddApp {
		fields = append(fields, huh.NewInput().
			Title("App name").
			Placeholder("Zoom").
			Validate(notBlank("name")).
			Value(&m.entry.Name))
	}

	fields = append(fields,
		huh.NewInput().
			Title("Download link").
			Description("Direct link to the installer").
			Placeholder("https://example.com/setup.exe").
			Validate(notBlank("download link")).
			Value(&m.entry.URL),
		huh.NewInput().
			Title("Import icon").
			Description("Optional: path of an image to copy into the icons directory").
			Value(&m.iconFile),
		huh.NewInput().
			Title("Icon").
			Description("File name inside the icons directory").
			Placeholder("zoom.png").
			Validate(func(value string) error {
				if strings.TrimSpace(m.iconFile) != "" {
					return nil
				}

				return notBlank("icon")(value)
			}).
			Value(&m.entry.Icon),
		huh.NewInput().
			Title("Category").
			Description("Leave empty for "+domain.CategoryOther).
			Suggestions(m.data.Categories).
			Value(&m.entry.Category),
	)

	title := "Add app"
	if m.data.Kind == EditorEditApp {
		title = "Edit " + m.entry.Name
	}

	return huh.NewGroup(fields...).Title(title)
}

// Init implements tea.Model.
func (m *Editor) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model.
func (m *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.form = m.form.WithWidth(min(size.Width, maxFormWidth))
	}

	if m.done {
		return m, nil
	}

	updated, cmd := m.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		m.form = form
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, tea.Batch(cmd, m.apply())
	case huh.StateAborted:
		m.done = true

		return m, Navigate(CatalogScreen, nil)
	case huh.StateNormal:
	}

	return m, cmd
}

// apply hands the form values to the session and returns to the catalog.
func (m *Editor) apply() tea.Cmd {
	m.done = true

	if m.data.Kind == EditorAddCategory {
		return tea.Batch(Notify(m.session.AddCategory(m.category)), Navigate(CatalogScreen, nil))
	}

	if path := strings.TrimSpace(m.iconFile); path != "" {
		name, note := m.session.ImportIcon(path)
		if note.IsError {
			return tea.Batch(Notify(note), Navigate(CatalogScreen, nil))
		}

		m.entry.Icon = name
	}

	var note application.Notification
	if m.data.Kind == EditorEditApp {
		note = m.session.EditApp(m.entry)
	} else {
		note = m.session.AddApp(m.entry)
	}

	return tea.Batch(Notify(note), Navigate(CatalogScreen, strings.TrimSpace(m.entry.Name)))
}

// View implements tea.Model.
func (m *Editor) View() string {
	return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
}
