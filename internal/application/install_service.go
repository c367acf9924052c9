// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package application holds the services that drive the catalog and the
// installer downloads on behalf of the TUI and the CLI.
package application

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
)

// DefaultInstallerExtension is used when the download link has no known installer extension.
const DefaultInstallerExtension = ".exe"

// installerExtensions are taken from the download link when present.
var installerExtensions = []string{".exe", ".msi", ".msix", ".msixbundle", ".appx", ".appxbundle"} //nolint:gochecknoglobals

// Dependencies are the ports the install service drives.
type Dependencies struct {
	Network  domain.NetworkClient
	Files    domain.FileManager
	Launcher domain.Launcher
	Browser  domain.FileBrowser
	History  domain.HistoryRecorder // optional
}

// InstallOptions configure where and how installers are stored.
type InstallOptions struct {
	DownloadDir      string
	DefaultExtension string
}

// InstallService downloads installers for selected apps and optionally runs
// them elevated, following one of the install modes. It is not safe for
// concurrent use.
type InstallService struct {
	apps     domain.AppLookup
	deps     Dependencies
	opts     InstallOptions
	observer func(domain.InstallEvent)
	now      func() time.Time

	manual *manualRun
}

// manualRun is the state of a step-through run between Start and Done.
type manualRun struct {
	runID    string
	names    []string
	next     int
	state    domain.ManualState
	outcomes []domain.AppOutcome
}

// NewInstallService creates an install service resolving names through apps.
func NewInstallService(apps domain.AppLookup, deps Dependencies, opts InstallOptions) *InstallService {
	if opts.DownloadDir == "" {
		opts.DownloadDir = "installers"
	}

	if opts.DefaultExtension == "" {
		opts.DefaultExtension = DefaultInstallerExtension
	}

	return &InstallService{
		apps: apps,
		deps: deps,
		opts: opts,
		now:  time.Now,
	}
}

// SetObserver registers a callback for progress events.
func (s *InstallService) SetObserver(observer func(domain.InstallEvent)) {
	s.observer = observer
}

// DownloadDir returns the directory installers are written to.
func (s *InstallService) DownloadDir() string {
	return s.opts.DownloadDir
}

func (s *InstallService) emit(event domain.InstallEvent) {
	if s.observer != nil {
		s.observer(event)
	}
}

// Install processes names in order using mode. For auto and skip every app
// is attempted and failures are reported per app. For manual only the
// first app is processed; call Proceed for the rest.
func (s *InstallService) Install(ctx context.Context, mode domain.InstallMode, names []string) (*domain.InstallReport, error) {
	if len(names) == 0 {
		return nil, domain.ErrNothingSelected
	}

	switch mode {
	case domain.ModeManual:
		return s.Start(ctx, names)
	case domain.ModeAuto, domain.ModeSkip:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}

	report := &domain.InstallReport{RunID: newRunID(), Mode: mode}
	launch := mode == domain.ModeAuto

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Outcomes = append(report.Outcomes, s.processOne(ctx, report.RunID, mode, name, i, len(names), launch))
	}

	if mode == domain.ModeSkip {
		if err := s.deps.Browser.Open(s.opts.DownloadDir); err != nil {
			console.DefaultOutput.Warningf("Could not open %s: %v", s.opts.DownloadDir, err)
		} else {
			report.OpenedDir = true
		}
	}

	s.emit(domain.InstallEvent{Kind: domain.EventFinished, Total: len(names)})

	return report, nil
}

// Start begins a manual run and processes its first app immediately.
// Any previous manual run is discarded.
func (s *InstallService) Start(ctx context.Context, names []string) (*domain.InstallReport, error) {
	if len(names) == 0 {
		return nil, domain.ErrNothingSelected
	}

	s.manual = &manualRun{
		runID: newRunID(),
		names: slices.Clone(names),
		state: domain.StateIdle,
	}

	return s.step(ctx), nil
}

// Proceed processes the next app of the manual run.
func (s *InstallService) Proceed(ctx context.Context) (*domain.InstallReport, error) {
	if s.manual == nil || s.manual.state != domain.StateAwaitingNext {
		return nil, domain.ErrNoPendingStep
	}

	return s.step(ctx), nil
}

// Cancel abandons the manual run.
func (s *InstallService) Cancel() {
	s.manual = nil
}

// ManualState returns where the manual run stands.
func (s *InstallService) ManualState() domain.ManualState {
	if s.manual == nil {
		return domain.StateIdle
	}

	return s.manual.state
}

// Pending returns the app the next Proceed will process, if any.
func (s *InstallService) Pending() (string, bool) {
	if s.manual == nil || s.manual.state != domain.StateAwaitingNext {
		return "", false
	}

	return s.manual.names[s.manual.next], true
}

func (s *InstallService) step(ctx context.Context) *domain.InstallReport {
	run := s.manual
	index := run.next
	total := len(run.names)

	run.state = domain.StateDownloading
	outcome := s.processOne(ctx, run.runID, domain.ModeManual, run.names[index], index, total, true)
	run.outcomes = append(run.outcomes, outcome)
	run.next++

	report := &domain.InstallReport{
		RunID:    run.runID,
		Mode:     domain.ModeManual,
		Outcomes: slices.Clone(run.outcomes),
	}

	switch {
	case outcome.Failed():
		// A failure ends the run; the remaining apps are not attempted.
		s.manual = nil
		report.State = domain.StateIdle
	case run.next >= total:
		run.state = domain.StateDone
		report.State = domain.StateDone

		s.emit(domain.InstallEvent{Kind: domain.EventFinished, Total: total})
	default:
		run.state = domain.StateAwaitingNext
		report.State = domain.StateAwaitingNext
		report.Next = run.names[run.next]

		s.emit(domain.InstallEvent{Kind: domain.EventAwaitingNext, App: report.Next, Index: run.next, Total: total})
	}

	return report
}

// processOne downloads one app and, when launch is set, starts its installer.
func (s *InstallService) processOne(ctx context.Context, runID string, mode domain.InstallMode,
	name string, index, total int, launch bool,
) domain.AppOutcome {
	started := s.now()
	outcome := domain.AppOutcome{Name: name}

	entry, ok := s.apps.Lookup(name)
	if !ok {
		outcome.Err = domain.NewAppNotFound(name)
		s.finish(ctx, runID, mode, entry, &outcome, started, index, total)

		return outcome
	}

	s.emit(domain.InstallEvent{Kind: domain.EventDownloading, App: name, Index: index, Total: total})
	console.DefaultOutput.Progressf("Downloading %s...", name)

	if err := s.deps.Files.EnsureDir(s.opts.DownloadDir); err != nil {
		outcome.Err = fmt.Errorf("create %s: %w: %w", s.opts.DownloadDir, domain.ErrIO, err)
		s.finish(ctx, runID, mode, entry, &outcome, started, index, total)

		return outcome
	}

	outcome.Path = filepath.Join(s.opts.DownloadDir, InstallerFileName(entry.Name, entry.URL, s.opts.DefaultExtension))

	// Left behind by an interrupted run.
	if partial := outcome.Path + domain.PartialDownloadSuffix; s.deps.Files.FileExists(partial) {
		_ = s.deps.Files.RemoveFile(partial)
	}

	written, err := s.deps.Network.DownloadFile(ctx, entry.URL, outcome.Path)
	outcome.Bytes = written

	if err != nil {
		outcome.Err = err
		s.finish(ctx, runID, mode, entry, &outcome, started, index, total)

		return outcome
	}

	s.emit(domain.InstallEvent{Kind: domain.EventDownloaded, App: name, Index: index, Total: total})

	if launch {
		console.DefaultOutput.Progressf("Installing %s...", name)

		process, err := s.deps.Launcher.RunElevated(ctx, outcome.Path)
		if err != nil {
			outcome.Err = fmt.Errorf("run installer: %w", err)
			s.finish(ctx, runID, mode, entry, &outcome, started, index, total)

			return outcome
		}

		outcome.Launched = true
		outcome.Process = process

		s.emit(domain.InstallEvent{Kind: domain.EventLaunched, App: name, Index: index, Total: total})
	}

	s.finish(ctx, runID, mode, entry, &outcome, started, index, total)

	return outcome
}

// finish stamps the duration, reports failures and records the attempt.
func (s *InstallService) finish(ctx context.Context, runID string, mode domain.InstallMode,
	entry domain.AppEntry, outcome *domain.AppOutcome, started time.Time, index, total int,
) {
	outcome.Duration = s.now().Sub(started)

	status := domain.HistoryDownloaded

	switch {
	case outcome.Err != nil:
		status = domain.HistoryFailed
		outcome.Error = outcome.Err.Error()

		console.DefaultOutput.Errorf("Failed to install %s: %v", outcome.Name, outcome.Err)
		s.emit(domain.InstallEvent{Kind: domain.EventFailed, App: outcome.Name, Index: index, Total: total, Err: outcome.Err})
	case outcome.Launched:
		status = domain.HistoryLaunched
	}

	if s.deps.History == nil {
		return
	}

	// Recording must not be skipped because the run was canceled.
	recordCtx := context.WithoutCancel(ctx)

	err := s.deps.History.Record(recordCtx, domain.HistoryEntry{
		RunID:     runID,
		App:       outcome.Name,
		Mode:      mode,
		URL:       entry.URL,
		Path:      outcome.Path,
		Status:    status,
		Error:     outcome.Error,
		Bytes:     outcome.Bytes,
		StartedAt: started,
		Duration:  outcome.Duration,
	})
	if err != nil {
		console.DefaultOutput.Warningf("Could not record history for %s: %v", outcome.Name, err)
	}
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}

	return id.String()
}

// InstallerFileName builds the file name an app's installer is saved as.
// The extension comes from the link when it names an installer type,
// otherwise defaultExt is used.
func InstallerFileName(name, link, defaultExt string) string {
	ext := defaultExt

	if parsed, err := url.Parse(link); err == nil {
		candidate := strings.ToLower(path.Ext(parsed.Path))
		if slices.Contains(installerExtensions, candidate) {
			ext = candidate
		}
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return SanitizeFileName(name) + ext
}

// SanitizeFileName replaces characters that are not allowed in Windows file names.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}

		return r
	}, name)

	cleaned = strings.TrimRight(cleaned, ". ")
	if cleaned == "" {
		return "installer"
	}

	return cleaned
}
