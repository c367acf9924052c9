// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package application_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/boreapps/bore/internal/adapters/network"
	"github.com/boreapps/bore/internal/adapters/platform"
	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionDocument = `{
  "Apps": {
    "Discord": {"url": "https://example.com/discord.exe", "icon": "discord.png", "category": "Chat"},
    "Steam": {"url": "https://example.com/steam.exe", "icon": "steam.png", "category": "Games"},
    "Zoom": {"url": "https://example.com/zoom.exe", "icon": "zoom.png", "category": "Chat"}
  }
}`

type sessionFixture struct {
	session  *application.Session
	network  *network.MockNetworkClient
	launcher *platform.MockLauncher
	browser  *platform.MockBrowser
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "apps.json")
	require.NoError(t, os.WriteFile(path, []byte(sessionDocument), 0600))

	files := platform.NewFileManager(false)
	store := catalog.NewStore(path, files)

	_, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.CaptureDefault())

	downloads := platform.NewMockFileManager(false)
	fixture := &sessionFixture{
		network:  network.NewMockNetworkClient(downloads),
		launcher: platform.NewMockLauncher(),
		browser:  platform.NewMockBrowser(),
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

	editor := catalog.NewEditor(store, files, filepath.Join(dir, "icons"))
	fixture.session = application.NewSession(store, editor, installer, 0)

	return fixture
}

func TestSession_EditNotifications(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		action  func(s *application.Session) application.Notification
		message string
		isError bool
	}{
		{
			name: "add",
			action: func(s *application.Session) application.Notification {
				return s.AddApp(domain.AppEntry{Name: "Slack", URL: "https://example.com/slack.exe", Icon: "slack.png", Category: "Chat"})
			},
			message: "Added Slack to Chat.",
		},
		{
			name: "add without fields",
			action: func(s *application.Session) application.Notification {
				return s.AddApp(domain.AppEntry{Name: "Slack"})
			},
			message: "Please fill in all fields.",
			isError: true,
		},
		{
			name: "edit",
			action: func(s *application.Session) application.Notification {
				return s.EditApp(domain.AppEntry{Name: "Steam", URL: "https://example.com/s.exe", Icon: "steam.png", Category: "Launchers"})
			},
			message: "Edited Steam in Launchers.",
		},
		{
			name: "edit unknown",
			action: func(s *application.Session) application.Notification {
				return s.EditApp(domain.AppEntry{Name: "Nope", URL: "u", Icon: "i"})
			},
			message: "App not found to edit.",
			isError: true,
		},
		{
			name:    "remove",
			action:  func(s *application.Session) application.Notification { return s.RemoveApp("Zoom") },
			message: "Removed Zoom from Chat.",
		},
		{
			name:    "remove unknown",
			action:  func(s *application.Session) application.Notification { return s.RemoveApp("Nope") },
			message: "App not found to remove.",
			isError: true,
		},
		{
			name:    "delete category",
			action:  func(s *application.Session) application.Notification { return s.DeleteCategory("Chat") },
			message: "Deleted category: Chat. Apps moved to 'Uncategorized'.",
		},
		{
			name:    "add category",
			action:  func(s *application.Session) application.Notification { return s.AddCategory("Office") },
			message: "Added category: Office.",
		},
		{
			name:    "revert",
			action:  func(s *application.Session) application.Notification { return s.Revert() },
			message: "Reverted to default app list.",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			notification := testCase.action(newSessionFixture(t).session)

			assert.Equal(t, testCase.message, notification.Message)
			assert.Equal(t, testCase.isError, notification.IsError)
			assert.Equal(t, application.DefaultNotificationDuration, notification.Duration)
		})
	}
}

func TestSession_SelectionPrunedAfterMutation(t *testing.T) {
	t.Parallel()

	session := newSessionFixture(t).session

	checked, notification := session.Toggle("Zoom")
	assert.True(t, checked)
	assert.True(t, notification.Empty())

	_, notification = session.Toggle("Nope")
	assert.True(t, notification.IsError)

	session.RemoveApp("Zoom")
	assert.False(t, session.Selection().IsSelected("Zoom"))

	// Selection survives a category change
	session.Toggle("Steam")
	session.EditApp(domain.AppEntry{Name: "Steam", URL: "u", Icon: "i", Category: "Launchers"})
	assert.True(t, session.Selection().IsSelected("Steam"))
}

func TestSession_InstallNothingSelected(t *testing.T) {
	t.Parallel()

	report, notification := newSessionFixture(t).session.Install(context.Background())
	assert.Nil(t, report)
	assert.True(t, notification.IsError)
	assert.Equal(t, "Please select at least one app to install.", notification.Message)
}

func TestSession_InstallUsesCatalogOrder(t *testing.T) {
	t.Parallel()

	fixture := newSessionFixture(t)
	session := fixture.session

	session.Toggle("Steam")
	session.Toggle("Zoom")
	session.Toggle("Discord")
	assert.Equal(t, []string{"Discord", "Zoom", "Steam"}, session.SelectedInOrder())

	session.SetMode(domain.ModeSkip)

	report, notification := session.Install(context.Background())
	require.NotNil(t, report)
	assert.Equal(t, "Installers downloaded. Opening folder...", notification.Message)
	assert.False(t, notification.IsError)
	assert.Equal(t, []string{
		"https://example.com/discord.exe", "https://example.com/zoom.exe", "https://example.com/steam.exe",
	}, fixture.network.Requests)
}

func TestSession_InstallAutoNotifications(t *testing.T) {
	t.Parallel()

	fixture := newSessionFixture(t)
	session := fixture.session
	session.Toggle("Discord")
	session.Toggle("Steam")

	_, notification := session.Install(context.Background())
	assert.Equal(t, "All selected apps have been installed.", notification.Message)

	fixture.network.Errors["https://example.com/steam.exe"] = domain.ErrNetwork

	_, notification = session.Install(context.Background())
	assert.True(t, notification.IsError)
	assert.Equal(t, "Failed to install Steam: network failure", notification.Message)
}

func TestSession_ManualFlow(t *testing.T) {
	t.Parallel()

	fixture := newSessionFixture(t)
	session := fixture.session
	session.SetMode(domain.ModeManual)
	session.Toggle("Discord")
	session.Toggle("Steam")

	ctx := context.Background()

	report, notification := session.Install(ctx)
	require.NotNil(t, report)
	assert.Equal(t, "Ready to install: Steam", notification.Message)

	_, notification = session.ManualNext(ctx)
	assert.Equal(t, "All selected apps have been installed.", notification.Message)

	_, notification = session.ManualNext(ctx)
	assert.True(t, notification.IsError)
}

func TestSession_ManualEarlyTermination(t *testing.T) {
	t.Parallel()

	fixture := newSessionFixture(t)
	session := fixture.session
	session.SetMode(domain.ModeManual)
	session.Toggle("Discord")
	session.Toggle("Zoom")
	session.Toggle("Steam")

	fixture.network.Errors["https://example.com/zoom.exe"] = domain.ErrNetwork

	ctx := context.Background()
	_, _ = session.Install(ctx)

	_, notification := session.ManualNext(ctx)
	assert.True(t, notification.IsError)
	assert.Equal(t, "Failed to install Zoom: network failure", notification.Message)
	assert.Equal(t, domain.StateIdle, session.Installer().ManualState())
	assert.NotContains(t, fixture.network.Requests, "https://example.com/steam.exe")
}

func TestSession_RevertRestoresStartupSnapshot(t *testing.T) {
	t.Parallel()

	session := newSessionFixture(t).session

	session.RemoveApp("Discord")
	session.AddApp(domain.AppEntry{Name: "Slack", URL: "u", Icon: "i"})
	session.Toggle("Slack")

	notification := session.Revert()
	assert.False(t, notification.IsError)
	assert.Equal(t, []string{"Discord", "Zoom", "Steam"}, session.Catalog().Names())
	assert.False(t, session.Selection().IsSelected("Slack"))
}

func TestModeExplanation(t *testing.T) {
	t.Parallel()

	assert.Contains(t, application.ModeExplanation(domain.ModeAuto), "Auto Install (unsafe)")
	assert.Equal(t, "Skip Auto Install: Only downloads the installers and opens the folder. You install them manually.",
		application.ModeExplanation(domain.ModeSkip))
	assert.Contains(t, application.ModeExplanation(domain.ModeManual), "click 'Next App' to continue")
}
