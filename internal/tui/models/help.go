// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/domain"
	"github.com/boreapps/bore/internal/tui/styles"
)

const (
	helpWrapWidth = 80
	markdownStyle = "tokyo-night"
)

// HelpSection is one tab of the help screen, written in Markdown.
type HelpSection struct {
	Title   string
	Content string
}

// HelpKeyMap defines key bindings for the help screen.
type HelpKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Back  key.Binding
}

// DefaultHelpKeyMap returns the default key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		Left:  key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "previous")),
		Right: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next")),
		Back:  key.NewBinding(key.WithKeys(KeyEsc, "q", "?"), key.WithHelp("esc", "back")),
	}
}

// Help shows usage notes rendered with glamour.
type Help struct {
	styles   *styles.Styles
	keyMap   HelpKeyMap
	sections []HelpSection
	current  int
	viewport viewport.Model
	renderer *glamour.TermRenderer
	width    int
}

// NewHelp creates the help screen.
func NewHelp(styleConfig *styles.Styles) *Help {
	model := &Help{
		styles:   styleConfig,
		keyMap:   DefaultHelpKeyMap(),
		sections: HelpSections(),
		viewport: viewport.New(helpWrapWidth, 20),
		width:    helpWrapWidth,
	}

	model.renderer = newMarkdownRenderer(helpWrapWidth)
	model.render()

	return model
}

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(markdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		renderer, _ = glamour.NewTermRenderer(glamour.WithWordWrap(width))
	}

	return renderer
}

// HelpSections returns the help text. The install modes section is built
// from the same explanations the mode picker shows.
func HelpSections() []HelpSection {
	var modes strings.Builder

	modes.WriteString("# Install modes\n\n")

	for _, mode := range domain.Modes() {
		fmt.Fprintf(&modes, "## %s\n\n%s\n\n", application.ModeLabel(mode), application.ModeExplanation(mode))
	}

	modes.WriteString("Press **m** on the app list to change the mode. " +
		"The mode is used for the next **Install** and can also be set with `default_mode` in the config file.\n")

	return []HelpSection{
		{
			Title: "Getting started",
			Content: `# Getting started

bore keeps a list of Windows apps with a direct link to each installer.
Tick the apps you want and press **enter** to download their installers
one after another.

1. Move through the list with **↑/↓** or **j/k**
2. Tick apps with **space**
3. Pick how to install with **m**
4. Press **enter** to start

Downloads go to the download folder from the config file
(` + "`installers`" + ` next to the app list by default).`,
		},
		{Title: "Install modes", Content: modes.String()},
		{
			Title: "Editing",
			Content: `# Editing the app list

| Key | Action |
|-----|--------|
| a | Add an app |
| e | Edit the app under the cursor |
| d | Remove the app under the cursor |
| c | Create a category |
| C | Delete the category under the cursor |
| r | Revert to the app list bore first saw |
| / | Filter by app or category |

Every change is saved right away. Deleting a category moves its apps to
**Uncategorized**. Editing is disabled while an install is running.`,
		},
		{
			Title: "App list file",
			Content: "# App list file\n\n" +
				"The app list is a JSON document grouped by category:\n\n" +
				"```json\n" +
				`{
  "Chat": {
    "Zoom": {
      "url": "https://zoom.us/client/latest/ZoomInstallerFull.exe",
      "icon": "zoom.png",
      "category": "Chat"
    }
  }
}` + "\n```\n\n" +
				"Icons are image files in the icons folder (png, jpeg, gif or bmp). " +
				"The category **Other** is always listed last.",
		},
	}
}

// Init implements tea.Model.
func (m *Help) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Help) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-lipgloss.Height(m.header())-3, 3)

		if wrap := min(msg.Width-2, helpWrapWidth); wrap > 20 {
			m.renderer = newMarkdownRenderer(wrap)
		}

		m.render()

		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Back):
			return m, Navigate(CatalogScreen, nil)
		case key.Matches(msg, m.keyMap.Left):
			m.show(m.current - 1)

			return m, nil
		case key.Matches(msg, m.keyMap.Right):
			m.show(m.current + 1)

			return m, nil
		}
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m *Help) show(section int) {
	if section < 0 || section >= len(m.sections) {
		return
	}

	m.current = section
	m.render()
}

// Section returns the index of the visible section.
func (m *Help) Section() int {
	return m.current
}

func (m *Help) render() {
	content := m.sections[m.current].Content
	rendered := content

	if m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			rendered = out
		}
	}

	m.viewport.SetContent(rendered)
	m.viewport.GotoTop()
}

// header is the wordmark above the section tabs.
func (m *Help) header() string {
	tabs := make([]string, 0, len(m.sections))

	for i, section := range m.sections {
		if i == m.current {
			tabs = append(tabs, m.styles.Selected.MarginRight(1).Render(section.Title))
		} else {
			tabs = append(tabs, m.styles.MutedText.Padding(0, 1).MarginRight(1).Render(section.Title))
		}
	}

	return m.styles.Container.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Logo(),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	))
}

// View implements tea.Model.
func (m *Help) View() string {
	footer := RenderFooter(m.styles, m.width, m.keyMap.Down, m.keyMap.Left, m.keyMap.Right, m.keyMap.Back)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		m.viewport.View(),
		footer,
	)
}
