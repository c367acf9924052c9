// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"errors"
	"fmt"

	"github.com/boreapps/bore/internal/adapters/history"
	"github.com/boreapps/bore/internal/adapters/network"
	"github.com/boreapps/bore/internal/adapters/platform"
	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
)

// Adapters are the OS-facing ports. Tests swap them for mocks.
type Adapters struct {
	Files    domain.FileManager
	Network  domain.NetworkClient
	Launcher domain.Launcher
	Browser  domain.FileBrowser
	History  domain.HistoryRecorder
}

// runtime is everything one command needs, wired from the loaded config.
type runtime struct {
	files     domain.FileManager
	store     *catalog.Store
	editor    *catalog.Editor
	installer *application.InstallService
	session   *application.Session
	history   domain.HistoryRecorder

	closers []func() error
}

// open loads the catalog and wires the services around it. An unreadable
// catalog is a configuration error. One-shot commands revert to the
// persisted baseline. The interactive catalog reverts to the document as it
// was when it started, and keeps the baseline current for later commands.
func (app *CLI) open(revertToBaseline bool) (*runtime, error) {
	cfg := app.cfg
	rt := &runtime{files: app.adapters.Files}

	if rt.files == nil {
		rt.files = platform.NewFileManager(app.verbose)
	}

	storeOpts := []catalog.Option{catalog.WithBaseline(cfg.Baseline())}
	if !revertToBaseline {
		storeOpts = append(storeOpts, catalog.WithStartupSnapshot())
	}

	rt.store = catalog.NewStore(cfg.CatalogPath, rt.files, storeOpts...)
	if _, err := rt.store.Load(); err != nil {
		return nil, domain.NewExitError(ExitConfigError, "Cannot read app list: "+err.Error(), err)
	}

	if err := rt.store.CaptureDefault(); err != nil {
		console.DefaultOutput.Warningf("Default app list not saved, revert is unavailable: %v", err)
	}

	rt.editor = catalog.NewEditor(rt.store, rt.files, cfg.IconsDir)
	rt.history = app.openHistory(rt)

	deps := application.Dependencies{
		Network:  app.adapters.Network,
		Files:    rt.files,
		Launcher: app.adapters.Launcher,
		Browser:  app.adapters.Browser,
		History:  rt.history,
	}

	if deps.Network == nil {
		deps.Network = network.NewHTTPClient(cfg.HTTPTimeout())
	}

	if deps.Launcher == nil {
		deps.Launcher = platform.NewLauncher(app.verbose)
	}

	if deps.Browser == nil {
		deps.Browser = platform.NewBrowser()
	}

	rt.installer = application.NewInstallService(rt.store, deps, application.InstallOptions{
		DownloadDir:      cfg.DownloadDir,
		DefaultExtension: cfg.InstallerExtension,
	})

	rt.session = application.NewSession(rt.store, rt.editor, rt.installer, cfg.NotificationDuration())
	rt.session.SetMode(cfg.Mode())

	return rt, nil
}

// openHistory opens the download ledger. Without one installs still work.
func (app *CLI) openHistory(rt *runtime) domain.HistoryRecorder {
	if app.adapters.History != nil {
		return app.adapters.History
	}

	if app.cfg.HistoryPath == "" {
		return nil
	}

	ledger, err := history.Open(app.cfg.HistoryPath)
	if err != nil {
		console.DefaultOutput.Warningf("Download history disabled: %v", err)

		return nil
	}

	rt.closers = append(rt.closers, ledger.Close)

	return ledger
}

// Close releases the history database.
func (rt *runtime) Close() error {
	var errs []error

	for _, closeFn := range rt.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close resources: %w", errors.Join(errs...))
	}

	return nil
}
