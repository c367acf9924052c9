// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/domain"
	"github.com/boreapps/bore/internal/icons"
	"github.com/boreapps/bore/internal/stringutil"
	"github.com/boreapps/bore/internal/tui/styles"
)

// Layout of the catalog screen.
const (
	sidebarWidth     = 32
	minWidthForPanel = 64
	catalogChrome    = 3 // footer border, footer text and filter line
)

// MsgRunActive is shown when an edit is attempted during an install run.
const MsgRunActive = "Please finish or cancel the install first."

// CatalogKeyMap defines key bindings for the catalog screen.
type CatalogKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Add            key.Binding
	Edit           key.Binding
	Remove         key.Binding
	NewCategory    key.Binding
	DeleteCategory key.Binding
	Mode           key.Binding
	Install        key.Binding
	Revert         key.Binding
	Filter         key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// DefaultCatalogKeyMap returns the default key bindings.
func DefaultCatalogKeyMap() CatalogKeyMap {
	return CatalogKeyMap{
		Up:             key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Toggle:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Remove:         key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		NewCategory:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new category")),
		DeleteCategory: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "delete category")),
		Mode:           key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		Install:        key.NewBinding(key.WithKeys("i", KeyEnter), key.WithHelp("enter", "install")),
		Revert:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "revert")),
		Filter:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// row is one line of the list: a category header when app is nil.
type row struct {
	category string
	app      *domain.AppEntry
}

// Catalog is the main screen: apps grouped by category with checkboxes and
// an icon preview of the app under the cursor.
type Catalog struct {
	styles  *styles.Styles
	session *application.Session
	icons   *icons.Cache
	keyMap  CatalogKeyMap

	width  int
	height int

	rows     []row
	cursor   int
	viewport viewport.Model

	filter    textinput.Model
	filtering bool

	running bool
}

// NewCatalog creates the catalog screen over session.
func NewCatalog(styleConfig *styles.Styles, session *application.Session, iconCache *icons.Cache) *Catalog {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter by app or category"

	model := &Catalog{
		styles:   styleConfig,
		session:  session,
		icons:    iconCache,
		keyMap:   DefaultCatalogKeyMap(),
		width:    80,
		height:   24,
		viewport: viewport.New(80, 24-catalogChrome),
		filter:   filter,
	}

	model.Refresh()

	return model
}

// SetRunning locks catalog edits while an install run is active.
func (m *Catalog) SetRunning(running bool) {
	m.running = running
}

// Refresh rebuilds the rows from the catalog, keeping the cursor on the
// same app or category where it still exists.
func (m *Catalog) Refresh() {
	var previous row
	if m.cursor < len(m.rows) {
		previous = m.rows[m.cursor]
	}

	query := strings.TrimSpace(m.filter.Value())
	rows := make([]row, 0, m.session.Catalog().Len())

	for _, category := range m.session.Catalog().Categories() {
		matchesCategory := query == "" || stringutil.ContainsIgnoreCase(category.Name, query)

		var apps []domain.AppEntry

		for _, entry := range category.Apps {
			if matchesCategory || stringutil.ContainsIgnoreCase(entry.Name, query) {
				apps = append(apps, entry)
			}
		}

		if !matchesCategory && len(apps) == 0 {
			continue
		}

		rows = append(rows, row{category: category.Name})

		for i := range apps {
			rows = append(rows, row{category: category.Name, app: &apps[i]})
		}
	}

	m.rows = rows
	m.cursor = m.locate(previous)
	m.sync()
}

// Focus moves the cursor to the named app, if shown.
func (m *Catalog) Focus(name string) {
	for i, r := range m.rows {
		if r.app != nil && r.app.Name == name {
			m.cursor = i
			m.sync()

			return
		}
	}
}

// Current returns the app under the cursor.
func (m *Catalog) Current() (domain.AppEntry, bool) {
	if m.cursor >= len(m.rows) || m.rows[m.cursor].app == nil {
		return domain.AppEntry{}, false
	}

	return *m.rows[m.cursor].app, true
}

// CurrentCategory returns the category of the row under the cursor.
func (m *Catalog) CurrentCategory() string {
	if m.cursor >= len(m.rows) {
		return ""
	}

	return m.rows[m.cursor].category
}

func (m *Catalog) locate(previous row) int {
	if previous.app != nil {
		for i, r := range m.rows {
			if r.app != nil && r.app.Name == previous.app.Name {
				return i
			}
		}
	}

	for i, r := range m.rows {
		if r.app == nil && r.category == previous.category {
			return i
		}
	}

	return min(m.cursor, max(len(m.rows)-1, 0))
}

// Init implements tea.Model.
func (m *Catalog) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Catalog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m, m.updateFilter(msg)
		}

		return m, m.handleKey(msg)
	}

	if m.filtering {
		var cmd tea.Cmd

		m.filter, cmd = m.filter.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Catalog) resize(width, height int) {
	m.width = width
	m.height = height

	m.viewport.Width = m.listWidth()
	m.viewport.Height = max(height-catalogChrome, 1)
	m.sync()
}

func (m *Catalog) listWidth() int {
	if m.width >= minWidthForPanel {
		return m.width - sidebarWidth - 2
	}

	return m.width
}

func (m *Catalog) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keyMap.Up):
		m.move(-1)
	case key.Matches(msg, m.keyMap.Down):
		m.move(1)
	case key.Matches(msg, m.keyMap.Toggle):
		return m.toggle()
	case key.Matches(msg, m.keyMap.Install):
		if m.running {
			return Navigate(ProgressScreen, nil)
		}

		return Navigate(ProgressScreen, ProgressData{Mode: m.session.Mode()})
	case key.Matches(msg, m.keyMap.Filter):
		m.filtering = true

		return m.filter.Focus()
	case key.Matches(msg, m.keyMap.Help):
		return Navigate(HelpScreen, nil)
	default:
		return m.handleEditKey(msg)
	}

	return nil
}

// handleEditKey runs the keys that change the catalog or the install setup.
func (m *Catalog) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	edits := []key.Binding{
		m.keyMap.Add, m.keyMap.Edit, m.keyMap.Remove, m.keyMap.NewCategory,
		m.keyMap.DeleteCategory, m.keyMap.Mode, m.keyMap.Revert,
	}

	matched := false

	for _, binding := range edits {
		if key.Matches(msg, binding) {
			matched = true
		}
	}

	if !matched {
		return nil
	}

	if m.running {
		return Notify(m.session.Failure(MsgRunActive))
	}

	current, onApp := m.Current()

	switch {
	case key.Matches(msg, m.keyMap.Add):
		category := m.CurrentCategory()
		if category == domain.CategoryOther {
			category = ""
		}

		return Navigate(EditorScreen, EditorData{
			Kind:       EditorAddApp,
			Entry:      domain.AppEntry{Category: category},
			Categories: m.session.Catalog().CategoryNames(),
		})
	case key.Matches(msg, m.keyMap.Edit) && onApp:
		return Navigate(EditorScreen, EditorData{
			Kind:       EditorEditApp,
			Entry:      current,
			Categories: m.session.Catalog().CategoryNames(),
		})
	case key.Matches(msg, m.keyMap.Remove) && onApp:
		note := m.session.RemoveApp(current.Name)
		m.Refresh()

		return Notify(note)
	case key.Matches(msg, m.keyMap.NewCategory):
		return Navigate(EditorScreen, EditorData{Kind: EditorAddCategory})
	case key.Matches(msg, m.keyMap.DeleteCategory) && m.CurrentCategory() != "":
		note := m.session.DeleteCategory(m.CurrentCategory())
		m.Refresh()

		return Notify(note)
	case key.Matches(msg, m.keyMap.Mode):
		return Navigate(ModeScreen, nil)
	case key.Matches(msg, m.keyMap.Revert):
		return Navigate(RevertScreen, nil)
	}

	return nil
}

func (m *Catalog) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case KeyEsc:
		m.filter.SetValue("")
		m.filtering = false
		m.filter.Blur()
		m.Refresh()

		return nil
	case KeyEnter:
		m.filtering = false
		m.filter.Blur()

		return nil
	}

	var cmd tea.Cmd

	m.filter, cmd = m.filter.Update(msg)
	m.Refresh()

	return cmd
}

func (m *Catalog) move(delta int) {
	if len(m.rows) == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.sync()
}

func (m *Catalog) toggle() tea.Cmd {
	current, ok := m.Current()
	if !ok {
		return nil
	}

	_, note := m.session.Toggle(current.Name)
	m.sync()

	return Notify(note)
}

// sync re-renders the list into the viewport and keeps the cursor visible.
func (m *Catalog) sync() {
	m.viewport.SetContent(m.renderRows())

	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m *Catalog) renderRows() string {
	if len(m.rows) == 0 {
		if m.filter.Value() != "" {
			return m.styles.MutedText.Render("No apps match the filter.")
		}

		return m.styles.MutedText.Render("The app list is empty. Press a to add an app.")
	}

	selection := m.session.Selection()
	nameWidth := max(m.listWidth()-8, 8)
	lines := make([]string, 0, len(m.rows))

	for i, r := range m.rows {
		pointer := "  "
		if i == m.cursor {
			pointer = m.styles.Cursor.Render("> ")
		}

		if r.app == nil {
			selected, total := m.categoryCounts(r.category)
			header := fmt.Sprintf("── %s [%d/%d] ──", r.category, selected, total)
			lines = append(lines, pointer+m.styles.Category.Render(stringutil.Truncate(header, nameWidth+4)))

			continue
		}

		name := stringutil.Truncate(r.app.Name, nameWidth)
		if i == m.cursor {
			name = m.styles.PrimaryText.Bold(true).Render(name)
		}

		lines = append(lines, pointer+"  "+m.styles.Checkbox(selection.IsSelected(r.app.Name))+" "+name)
	}

	return strings.Join(lines, "\n")
}

func (m *Catalog) categoryCounts(name string) (int, int) {
	category, ok := m.session.Catalog().Category(name)
	if !ok {
		return 0, 0
	}

	selected := 0

	for _, entry := range category.Apps {
		if m.session.Selection().IsSelected(entry.Name) {
			selected++
		}
	}

	return selected, len(category.Apps)
}

// View implements tea.Model.
func (m *Catalog) View() string {
	body := m.viewport.View()

	if m.width >= minWidthForPanel {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.renderDetails())
	}

	filterLine := ""
	if m.filtering || m.filter.Value() != "" {
		filterLine = m.filter.View()
	}

	hints := []key.Binding{m.keyMap.Toggle, m.keyMap.Install}
	if !m.running {
		hints = append(hints, m.keyMap.Mode, m.keyMap.Add, m.keyMap.Edit, m.keyMap.Remove, m.keyMap.Revert)
	}

	hints = append(hints, m.keyMap.Filter, m.keyMap.Help, m.keyMap.Quit)
	footer := RenderFooter(m.styles, m.width, hints...)

	return lipgloss.JoinVertical(lipgloss.Left, body, filterLine, footer)
}

// renderDetails shows the icon and fields of the app under the cursor.
func (m *Catalog) renderDetails() string {
	textWidth := sidebarWidth - 4
	selected := len(m.session.SelectedInOrder())

	lines := []string{
		m.styles.MutedText.Render(fmt.Sprintf("%d selected · %s", selected, application.ModeLabel(m.session.Mode()))),
		"",
	}

	entry, ok := m.Current()
	if !ok {
		if category := m.CurrentCategory(); category != "" {
			_, total := m.categoryCounts(category)
			lines = append(lines, m.styles.Category.Render(stringutil.Truncate(category, textWidth)),
				m.styles.MutedText.Render(fmt.Sprintf("%d apps", total)))
		}

		return m.styles.Sidebar.Render(strings.Join(lines, "\n"))
	}

	if m.icons != nil {
		if art, shown := m.icons.Render(entry.Icon); shown {
			lines = append(lines, art, "")
		}
	}

	lines = append(lines,
		m.styles.PrimaryText.Bold(true).Render(stringutil.Truncate(entry.Name, textWidth)),
		m.styles.Subtitle.Render(stringutil.Truncate(entry.Category, textWidth)),
		"",
		m.styles.MutedText.Render(stringutil.Truncate(entry.URL, textWidth)),
		m.styles.MutedText.Render(stringutil.Truncate(entry.Icon, textWidth)),
	)

	return m.styles.Sidebar.Render(strings.Join(lines, "\n"))
}
