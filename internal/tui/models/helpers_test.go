// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/boreapps/bore/internal/adapters/network"
	"github.com/boreapps/bore/internal/adapters/platform"
	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/icons"
	"github.com/boreapps/bore/internal/tui/styles"
)

const testDocument = `{
  "Apps": {
    "Discord": {"url": "https://example.com/discord.exe", "icon": "discord.png", "category": "Chat"},
    "Steam": {"url": "https://example.com/steam.exe", "icon": "steam.png", "category": "Games"},
    "Zoom": {"url": "https://example.com/zoom.exe", "icon": "zoom.png", "category": "Chat"}
  }
}`

type testFixture struct {
	dir      string
	styles   *styles.Styles
	session  *application.Session
	editor   *catalog.Editor
	icons    *icons.Cache
	network  *network.MockNetworkClient
	launcher *platform.MockLauncher
	browser  *platform.MockBrowser
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "apps.json")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0600))

	files := platform.NewFileManager(false)
	store := catalog.NewStore(path, files)

	_, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.CaptureDefault())

	downloads := platform.NewMockFileManager(false)
	fixture := &testFixture{
		dir:      dir,
		styles:   styles.New(),
		network:  network.NewMockNetworkClient(downloads),
		launcher: platform.NewMockLauncher(),
		browser:  platform.NewMockBrowser(),
		icons:    icons.NewCache(filepath.Join(dir, "icons")),
	}

	for _, app := range store.Current().Apps() {
		fixture.network.Payloads[app.URL] = []byte("MZ")
	}

	installer := application.NewInstallService(store, application.Dependencies{
		Network:  fixture.network,
		Files:    downloads,
		Launcher: fixture.launcher,
		Browser:  fixture.browser,
	}, application.InstallOptions{DownloadDir: "installers"})

	fixture.editor = catalog.NewEditor(store, files, filepath.Join(dir, "icons"))
	fixture.session = application.NewSession(store, fixture.editor, installer, 0)

	return fixture
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func special(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

// collect runs cmd and any batched commands synchronously and returns the
// messages. Only use it for commands that do not block.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, inner := range msg {
			msgs = append(msgs, collect(inner)...)
		}

		return msgs
	default:
		return []tea.Msg{msg}
	}
}

// drive runs cmd the way a program would: every command in its own
// goroutine, every message fed back into model, until no command is left.
// Spinner and cursor ticks are dropped so the loop ends.
func drive(t *testing.T, model tea.Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()

	results := make(chan tea.Msg, 256)
	inflight := 0

	launch := func(c tea.Cmd) {
		if c == nil {
			return
		}

		inflight++

		go func() { results <- c() }()
	}

	launch(cmd)

	var seen []tea.Msg

	for inflight > 0 {
		select {
		case msg := <-results:
			inflight--

			switch msg := msg.(type) {
			case nil, spinner.TickMsg, cursor.BlinkMsg:
			case tea.BatchMsg:
				for _, c := range msg {
					launch(c)
				}
			default:
				seen = append(seen, msg)

				var next tea.Cmd

				model, next = model.Update(msg)
				launch(next)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("commands did not finish")
		}
	}

	return seen
}

func notifications(msgs []tea.Msg) []application.Notification {
	var notes []application.Notification

	for _, msg := range msgs {
		if note, ok := msg.(NotifyMsg); ok {
			notes = append(notes, note.Notification)
		}
	}

	return notes
}

func navigations(msgs []tea.Msg) []NavigateMsg {
	var navs []NavigateMsg

	for _, msg := range msgs {
		if nav, ok := msg.(NavigateMsg); ok {
			navs = append(navs, nav)
		}
	}

	return navs
}
