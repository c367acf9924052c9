// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package application_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boreapps/bore/internal/adapters/history"
	"github.com/boreapps/bore/internal/adapters/network"
	"github.com/boreapps/bore/internal/adapters/platform"
	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type installFixture struct {
	service  *application.InstallService
	files    *platform.MockFileManager
	network  *network.MockNetworkClient
	launcher *platform.MockLauncher
	browser  *platform.MockBrowser
	ledger   *history.MemoryLedger
	events   []domain.InstallEvent
}

func newInstallFixture(t *testing.T, entries ...domain.AppEntry) *installFixture {
	t.Helper()

	files := platform.NewMockFileManager(false)
	fixture := &installFixture{
		files:    files,
		network:  network.NewMockNetworkClient(files),
		launcher: platform.NewMockLauncher(),
		browser:  platform.NewMockBrowser(),
		ledger:   history.NewMemoryLedger(),
	}

	fixture.service = application.NewInstallService(catalog.New(entries...), application.Dependencies{
		Network:  fixture.network,
		Files:    files,
		Launcher: fixture.launcher,
		Browser:  fixture.browser,
		History:  fixture.ledger,
	}, application.InstallOptions{DownloadDir: "installers"})

	fixture.service.SetObserver(func(event domain.InstallEvent) {
		fixture.events = append(fixture.events, event)
	})

	for _, entry := range entries {
		fixture.network.Payloads[entry.URL] = []byte("MZ " + entry.Name)
	}

	return fixture
}

func entry(name, link string) domain.AppEntry {
	return domain.AppEntry{Name: name, URL: link, Icon: name + ".png", Category: "Tools"}
}

func TestInstallService_AutoMode(t *testing.T) {
	t.Parallel()

	fixture := newInstallFixture(t,
		entry("A", "https://example.com/a.exe"),
		entry("B", "https://example.com/b.msi"),
	)

	report, err := fixture.service.Install(context.Background(), domain.ModeAuto, []string{"A", "B"})
	require.NoError(t, err)

	assert.Empty(t, report.Failed())
	assert.Equal(t, []string{
		filepath.Join("installers", "A.exe"),
		filepath.Join("installers", "B.msi"),
	}, fixture.launcher.Launched())
	assert.False(t, report.OpenedDir)
	assert.Empty(t, fixture.browser.Opened())

	for _, outcome := range report.Outcomes {
		assert.True(t, outcome.Launched)
		require.NotNil(t, outcome.Process)
		require.NoError(t, outcome.Process.Wait())
	}

	entries, err := fixture.ledger.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.HistoryLaunched, entries[0].Status)
	assert.Equal(t, report.RunID, entries[0].RunID)
}

func TestInstallService_AutoModeContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	fixture := newInstallFixture(t,
		entry("A", "https://example.com/a.exe"),
		entry("B", "https://example.com/b.exe"),
		entry("C", "https://example.com/c.exe"),
	)
	fixture.network.Errors["https://example.com/a.exe"] = domain.ErrNetwork
	fixture.launcher.Errors[filepath.Join("installers", "B.exe")] = errors.New("elevation refused")

	report, err := fixture.service.Install(context.Background(), domain.ModeAuto, []string{"A", "B", "Gone", "C"})
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 4)
	assert.ErrorIs(t, report.Outcomes[0].Err, domain.ErrNetwork)
	assert.ErrorContains(t, report.Outcomes[1].Err, "elevation refused")
	assert.ErrorIs(t, report.Outcomes[2].Err, domain.ErrNotFound)
	assert.Equal(t, []string{"C"}, report.Succeeded())
	assert.Equal(t, []string{filepath.Join("installers", "C.exe")}, fixture.launcher.Launched())

	entries, err := fixture.ledger.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestInstallService_SkipMode(t *testing.T) {
	t.Parallel()

	fixture := newInstallFixture(t,
		entry("A", "https://example.com/a.exe"),
		entry("B", "https://example.com/b.exe"),
	)
	fixture.network.Errors["https://example.com/a.exe"] = domain.ErrNetwork

	report, err := fixture.service.Install(context.Background(), domain.ModeSkip, []string{"A", "B"})
	require.NoError(t, err)

	assert.Empty(t, fixture.launcher.Launched())
	assert.True(t, report.OpenedDir)
	assert.Equal(t, []string{"installers"}, fixture.browser.Opened())
	assert.False(t, fixture.files.FileExists(filepath.Join("installers", "A.exe")))
	assert.True(t, fixture.files.FileExists(filepath.Join("installers", "B.exe")))

	last := fixture.events[len(fixture.events)-1]
	assert.Equal(t, domain.EventFinished, last.Kind)
}

func TestInstallService_SkipModeOverHTTP(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/a.exe" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_, _ = w.Write([]byte("MZ installer"))
	}))
	defer server.Close()

	downloadDir := filepath.Join(t.TempDir(), "installers")
	browser := platform.NewMockBrowser()

	apps := catalog.New(entry("A", server.URL+"/a.exe"), entry("B", server.URL+"/b.exe"))
	service := application.NewInstallService(apps, application.Dependencies{
		Network:  network.NewHTTPClient(5 * time.Second),
		Files:    platform.NewFileManager(false),
		Launcher: platform.NewMockLauncher(),
		Browser:  browser,
	}, application.InstallOptions{DownloadDir: downloadDir})

	report, err := service.Install(context.Background(), domain.ModeSkip, []string{"A", "B"})
	require.NoError(t, err)

	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "A", report.Failed()[0].Name)

	dirEntries, err := os.ReadDir(downloadDir)
	require.NoError(t, err)
	require.Len(t, dirEntries, 1)
	assert.Equal(t, "B.exe", dirEntries[0].Name())
	assert.Equal(t, []string{downloadDir}, browser.Opened())
}

func TestInstallService_FailedDownloadKeepsEarlierInstaller(t *testing.T) {
	t.Parallel()

	fixture := newInstallFixture(t, entry("A", "https://example.com/a.exe"))
	installer := filepath.Join("installers", "A.exe")
	stale := installer + domain.PartialDownloadSuffix

	fixture.files.SetMockFile(installer, []byte("MZ from last week"))
	fixture.files.SetMockFile(stale, []byte("MZ half"))
	fixture.network.Errors["https://example.com/a.exe"] = domain.ErrNetwork

	report, err := fixture.service.Install(context.Background(), domain.ModeSkip, []string{"A"})
	require.NoError(t, err)
	require.Len(t, report.Failed(), 1)

	content, err := fixture.files.ReadFile(installer)
	require.NoError(t, err)
	assert.Equal(t, "MZ from last week", string(content))
	assert.False(t, fixture.files.FileExists(stale), "a partial file from an interrupted run is cleared")
}

func TestInstallService_FailedHTTPDownloadKeepsEarlierInstaller(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	downloadDir := filepath.Join(t.TempDir(), "installers")
	require.NoError(t, os.MkdirAll(downloadDir, 0o750))

	installer := filepath.Join(downloadDir, "A.exe")
	require.NoError(t, os.WriteFile(installer, []byte("MZ from last week"), 0o600))

	service := application.NewInstallService(catalog.New(entry("A", server.URL+"/a.exe")), application.Dependencies{
		Network:  network.NewHTTPClient(5 * time.Second),
		Files:    platform.NewFileManager(false),
		Launcher: platform.NewMockLauncher(),
		Browser:  platform.NewMockBrowser(),
	}, application.InstallOptions{DownloadDir: downloadDir})

	report, err := service.Install(context.Background(), domain.ModeSkip, []string{"A"})
	require.NoError(t, err)
	require.Len(t, report.Failed(), 1)

	content, err := os.ReadFile(filepath.Clean(installer))
	require.NoError(t, err)
	assert.Equal(t, "MZ from last week", string(content))
}

func TestInstallService_ManualMode(t *testing.T) {
	t.Parallel()

	fixture := newInstallFixture(t,
		entry("A", "https://example.com/a.exe"),
		entry("B", "https://example.com/b.exe"),
	)
	ctx := context.Background()

	_, err := fixture.service.Proceed(ctx)
	require.ErrorIs(t, err, domain.ErrNoPendingStep)

	report, err := fixture.service.Install(ctx, domain.ModeManual, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingNext, report.State)
	assert.Equal(t, "B", report.Next)
	assert.Equal(t, []string{filepath.Join("installers", "A.exe")}, fixture.launcher.Launched())

	pending, ok := fixture.service.Pending()
	require.True(t, ok)
	assert.Equal(t, "B", pending)

	report, err = fixture.service.Proceed(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StateDone, report.State)
	assert.Len(t, report.Outcomes, 2)
	assert.Equal(t, domain.StateDone, fixture.service.ManualState())
	assert.Len(t, fixture.launcher.Launched(), 2)

	_, err = fixture.service.Proceed(ctx)
	require.ErrorIs(t, err, domain.ErrNoPendingStep)
}

func TestInstallService_ManualModeStopsOnFailure(t *testing.T) {
	t.Parallel()

	fixture := newInstallFixture(t,
		entry("A", "https://example.com/a.exe"),
		entry("B", "https://example.com/b.exe"),
		entry("C", "https://example.com/c.exe"),
	)
	fixture.network.Errors["https://example.com/b.exe"] = domain.ErrNetwork
	ctx := context.Background()

	_, err := fixture.service.Start(ctx, []string{"A", "B", "C"})
	require.NoError(t, err)

	report, err := fixture.service.Proceed(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, report.State)
	assert.Equal(t, domain.StateIdle, fixture.service.ManualState())
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "B", report.Failed()[0].Name)

	_, err = fixture.service.Proceed(ctx)
	require.ErrorIs(t, err, domain.ErrNoPendingStep)

	assert.NotContains(t, fixture.network.Requests, "https://example.com/c.exe")
}

func TestInstallService_ManualCancel(t *testing.T) {
	t.Parallel()

	fixture := newInstallFixture(t, entry("A", "https://example.com/a.exe"), entry("B", "https://example.com/b.exe"))

	_, err := fixture.service.Start(context.Background(), []string{"A", "B"})
	require.NoError(t, err)

	fixture.service.Cancel()
	assert.Equal(t, domain.StateIdle, fixture.service.ManualState())

	_, ok := fixture.service.Pending()
	assert.False(t, ok)
}

func TestInstallService_Errors(t *testing.T) {
	t.Parallel()

	fixture := newInstallFixture(t, entry("A", "https://example.com/a.exe"))

	_, err := fixture.service.Install(context.Background(), domain.ModeAuto, nil)
	require.ErrorIs(t, err, domain.ErrNothingSelected)

	_, err = fixture.service.Install(context.Background(), domain.InstallMode("parallel"), []string{"A"})
	require.ErrorIs(t, err, domain.ErrUnknownMode)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := fixture.service.Install(ctx, domain.ModeSkip, []string{"A"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Outcomes)
}

func TestInstallService_EventsSequence(t *testing.T) {
	t.Parallel()

	fixture := newInstallFixture(t, entry("A", "https://example.com/a.exe"))

	_, err := fixture.service.Install(context.Background(), domain.ModeAuto, []string{"A"})
	require.NoError(t, err)

	kinds := make([]domain.InstallEventKind, 0, len(fixture.events))
	for _, event := range fixture.events {
		kinds = append(kinds, event.Kind)
	}

	assert.Equal(t, []domain.InstallEventKind{
		domain.EventDownloading, domain.EventDownloaded, domain.EventLaunched, domain.EventFinished,
	}, kinds)
}

func TestInstallerFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		app  string
		link string
		want string
	}{
		{"exe from link", "Discord", "https://example.com/DiscordSetup.exe", "Discord.exe"},
		{"msi keeps type", "7-Zip", "https://example.com/7z2408-x64.MSI", "7-Zip.msi"},
		{"query string ignored", "Zoom", "https://example.com/ZoomInstaller.msix?arch=x64", "Zoom.msix"},
		{"unknown extension falls back", "Steam", "https://example.com/download?id=3", "Steam.exe"},
		{"zip is not an installer", "Tool", "https://example.com/tool.zip", "Tool.exe"},
		{"unsafe characters replaced", `A/B:C*?`, "https://example.com/x.exe", "A_B_C__.exe"},
		{"trailing dots trimmed", "App...", "https://example.com/x.exe", "App.exe"},
		{"empty name", "", "https://example.com/x.exe", "installer.exe"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, application.InstallerFileName(testCase.app, testCase.link, application.DefaultInstallerExtension))
		})
	}
}
