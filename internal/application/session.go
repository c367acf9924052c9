// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/domain"
	"github.com/boreapps/bore/internal/selection"
)

// DefaultNotificationDuration is how long a notification stays visible.
const DefaultNotificationDuration = 4 * time.Second

// Notification is a transient status message for the user.
type Notification struct {
	Message  string
	IsError  bool
	Duration time.Duration
}

// Empty reports whether there is nothing to show.
func (n Notification) Empty() bool {
	return n.Message == ""
}

// modeExplanations describe each install mode to the user.
var modeExplanations = map[domain.InstallMode]string{ //nolint:gochecknoglobals
	domain.ModeAuto: "Auto Install (unsafe): Downloads and installs all selected apps automatically " +
		"at the same time. You may not see installer windows.",
	domain.ModeSkip:   "Skip Auto Install: Only downloads the installers and opens the folder. You install them manually.",
	domain.ModeManual: "Manual Step-Through: Installs one app at a time. After each, click 'Next App' to continue.",
}

// ModeExplanation returns the help text for mode.
func ModeExplanation(mode domain.InstallMode) string {
	return modeExplanations[mode]
}

// Session ties the catalog, the selection and the installer together and
// turns every user action into a Notification. It is what the TUI and the
// CLI drive. It is not safe for concurrent use.
type Session struct {
	store     *catalog.Store
	editor    *catalog.Editor
	selection *selection.Model
	installer *InstallService

	mode      domain.InstallMode
	notifyFor time.Duration
}

// NewSession creates a session. A zero notifyFor uses DefaultNotificationDuration.
func NewSession(store *catalog.Store, editor *catalog.Editor, installer *InstallService, notifyFor time.Duration) *Session {
	if notifyFor <= 0 {
		notifyFor = DefaultNotificationDuration
	}

	return &Session{
		store:     store,
		editor:    editor,
		selection: selection.New(),
		installer: installer,
		mode:      domain.ModeAuto,
		notifyFor: notifyFor,
	}
}

// Catalog returns the current catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.store.Current()
}

// Selection returns the selection model.
func (s *Session) Selection() *selection.Model {
	return s.selection
}

// Installer returns the install service.
func (s *Session) Installer() *InstallService {
	return s.installer
}

// Mode returns the selected install mode.
func (s *Session) Mode() domain.InstallMode {
	return s.mode
}

// SetMode selects the install mode used by Install.
func (s *Session) SetMode(mode domain.InstallMode) {
	s.mode = mode
}

// Info wraps a presentation message in a notification with the session duration.
func (s *Session) Info(message string) Notification {
	return s.info("%s", message)
}

// Failure is Info for error messages.
func (s *Session) Failure(message string) Notification {
	return s.fail("%s", message)
}

func (s *Session) info(format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), Duration: s.notifyFor}
}

func (s *Session) fail(format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), IsError: true, Duration: s.notifyFor}
}

// editFailure maps an editor error to the message shown for it.
func (s *Session) editFailure(err error, notFound string) Notification {
	switch {
	case errors.Is(err, domain.ErrValidation):
		var validation *domain.ValidationError
		if errors.As(err, &validation) && validation.Message != "" {
			return s.fail("%s", validation.Message)
		}

		if validation != nil && validation.Field == "name" {
			return s.fail("Please enter a name.")
		}

		return s.fail("Please fill in all fields.")
	case errors.Is(err, domain.ErrNotFound):
		return s.fail("%s", notFound)
	}

	return s.fail("Could not save changes: %v", err)
}

func (s *Session) prune() {
	s.selection.Prune(s.store.Current().Names())
}

// Toggle flips the checkbox of an app and returns its new state.
func (s *Session) Toggle(name string) (bool, Notification) {
	if _, ok := s.store.Lookup(name); !ok {
		return false, s.fail("App data not found for %s", name)
	}

	return s.selection.Toggle(name), Notification{}
}

// AddApp adds or overwrites an app.
func (s *Session) AddApp(entry domain.AppEntry) Notification {
	added, err := s.editor.AddApp(entry)
	if err != nil {
		return s.editFailure(err, "")
	}

	s.prune()

	return s.info("Added %s to %s.", added.Name, added.Category)
}

// EditApp rewrites an existing app.
func (s *Session) EditApp(entry domain.AppEntry) Notification {
	edited, err := s.editor.EditApp(entry)
	if err != nil {
		return s.editFailure(err, "App not found to edit.")
	}

	s.prune()

	return s.info("Edited %s in %s.", edited.Name, edited.Category)
}

// RemoveApp deletes an app.
func (s *Session) RemoveApp(name string) Notification {
	removed, err := s.editor.RemoveApp(name)
	if err != nil {
		return s.editFailure(err, "App not found to remove.")
	}

	s.prune()

	return s.info("Removed %s from %s.", removed.Name, removed.Category)
}

// AddCategory creates an empty category.
func (s *Session) AddCategory(name string) Notification {
	created, err := s.editor.AddCategory(name)
	if err != nil {
		return s.fail("Please enter a category name.")
	}

	if !created {
		return s.info("Category %s already exists.", strings.TrimSpace(name))
	}

	return s.info("Added category: %s.", strings.TrimSpace(name))
}

// DeleteCategory moves the apps of a category to "Uncategorized" and drops it.
func (s *Session) DeleteCategory(name string) Notification {
	if _, err := s.editor.DeleteCategory(name); err != nil {
		return s.editFailure(err, fmt.Sprintf("Category %s not found.", name))
	}

	s.prune()

	return s.info("Deleted category: %s. Apps moved to '%s'.", name, domain.CategoryUncategorized)
}

// Revert restores the app list captured at startup.
func (s *Session) Revert() Notification {
	if s.installer != nil {
		s.installer.Cancel()
	}

	if _, err := s.editor.Revert(); err != nil {
		return s.fail("Could not revert: %v", err)
	}

	s.prune()

	return s.info("Reverted to default app list.")
}

// ImportIcon copies an image into the icons directory and returns its file name.
func (s *Session) ImportIcon(path string) (string, Notification) {
	name, err := s.editor.ImportIcon(path)
	if err != nil {
		return "", s.fail("Could not import icon: %v", err)
	}

	return name, s.info("Imported icon %s.", name)
}

// SelectedInOrder returns the checked apps in catalog order.
func (s *Session) SelectedInOrder() []string {
	return s.selection.Resolve(s.store.Current().Names())
}

// Install runs the current mode over the checked apps in catalog order.
func (s *Session) Install(ctx context.Context) (*domain.InstallReport, Notification) {
	names := s.SelectedInOrder()
	if len(names) == 0 {
		return nil, s.fail("Please select at least one app to install.")
	}

	report, err := s.installer.Install(ctx, s.mode, names)
	if err != nil {
		return report, s.fail("Install stopped: %v", err)
	}

	return report, s.summarize(report)
}

// ManualNext processes the next app of a manual run.
func (s *Session) ManualNext(ctx context.Context) (*domain.InstallReport, Notification) {
	report, err := s.installer.Proceed(ctx)
	if err != nil {
		return nil, s.fail("There is no app waiting to be installed.")
	}

	return report, s.summarize(report)
}

// CancelManual abandons a manual run.
func (s *Session) CancelManual() {
	s.installer.Cancel()
}

// summarize turns a report into the notification for it. A failure wins over
// any success message.
func (s *Session) summarize(report *domain.InstallReport) Notification {
	if failed := report.Failed(); len(failed) > 0 {
		first := failed[0]
		if len(failed) == 1 {
			return s.fail("Failed to install %s: %v", first.Name, first.Err)
		}

		return s.fail("Failed to install %s: %v (and %d more)", first.Name, first.Err, len(failed)-1)
	}

	switch report.Mode {
	case domain.ModeSkip:
		return s.info("Installers downloaded. Opening folder...")
	case domain.ModeManual:
		if report.State == domain.StateAwaitingNext {
			return s.info("Ready to install: %s", report.Next)
		}
	case domain.ModeAuto:
	}

	return s.info("All selected apps have been installed.")
}
