// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui is the interactive catalog: a tree of bubbletea models under
// one root that owns the header and the notification bar.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/icons"
	"github.com/boreapps/bore/internal/tui/models"
	"github.com/boreapps/bore/internal/tui/styles"
)

const headerPadding = 2

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

// Options wires the TUI to the application layer.
type Options struct {
	Session       *application.Session
	Icons         *icons.Cache
	PreviewRevert func() (catalog.DiffSummary, error)
	Version       string
}

// helpPreloadedMsg is sent when help content has been pre-rendered.
type helpPreloadedMsg struct {
	model *models.Help
}

// dismissMsg hides the notification it was scheduled for.
type dismissMsg struct {
	seq int
}

// App is the root model. It keeps the catalog, help and any install run
// alive across screens and builds the short-lived screens on demand.
//
//nolint:containedctx // install runs honour the program context
type App struct {
	ctx    context.Context
	opts   Options
	styles *styles.Styles

	width  int
	height int

	screen   models.Screen
	content  tea.Model
	catalog  *models.Catalog
	help     *models.Help
	progress *models.Progress
	running  bool

	notification application.Notification
	noteSeq      int
	quitting     bool
}

// NewApp creates the root model showing the catalog.
func NewApp(ctx context.Context, opts Options) *App {
	styleConfig := styles.New()
	catalogModel := models.NewCatalog(styleConfig, opts.Session, opts.Icons)

	return &App{
		ctx:     ctx,
		opts:    opts,
		styles:  styleConfig,
		screen:  models.CatalogScreen,
		content: catalogModel,
		catalog: catalogModel,
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if !console.DefaultOutput.IsTTY(os.Stdin.Fd()) || !console.DefaultOutput.IsTTY(os.Stdout.Fd()) {
		return fmt.Errorf("terminal check failed: %w", ErrNoTerminal)
	}

	program := tea.NewProgram(
		NewApp(ctx, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Screen returns the visible screen.
func (a *App) Screen() models.Screen {
	return a.screen
}

// Content returns the visible screen model.
func (a *App) Content() tea.Model {
	return a.content
}

// Notification returns the visible notification.
func (a *App) Notification() application.Notification {
	return a.notification
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	styleConfig := a.styles

	preload := func() tea.Msg {
		return helpPreloadedMsg{model: models.NewHelp(styleConfig)}
	}

	return tea.Batch(a.content.Init(), preload)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case helpPreloadedMsg:
		if a.help == nil {
			a.help = msg.model
		}

		return a, nil
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		return a, a.resizeContent()
	case models.NavigateMsg:
		return a, a.navigate(msg)
	case models.NotifyMsg:
		return a, a.notify(msg.Notification)
	case dismissMsg:
		if msg.seq == a.noteSeq {
			a.notification = application.Notification{}
		}

		return a, nil
	case models.RunStateMsg:
		a.setRunning(msg.Running)

		return a, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true

			return a, tea.Quit
		}
	}

	var cmd tea.Cmd

	a.content, cmd = a.content.Update(msg)

	return a, cmd
}

func (a *App) navigate(msg models.NavigateMsg) tea.Cmd {
	session := a.opts.Session

	switch msg.Screen {
	case models.CatalogScreen:
		a.catalog.Refresh()

		if name, ok := msg.Data.(string); ok && name != "" {
			a.catalog.Focus(name)
		}

		return a.show(models.CatalogScreen, a.catalog, false)
	case models.EditorScreen:
		if a.running {
			return a.notify(session.Failure(models.MsgRunActive))
		}

		data, _ := msg.Data.(models.EditorData)

		return a.show(models.EditorScreen, models.NewEditor(a.styles, session, data), true)
	case models.ModeScreen:
		return a.show(models.ModeScreen, models.NewModePicker(a.styles, session), true)
	case models.HelpScreen:
		if a.help == nil {
			a.help = models.NewHelp(a.styles)
		}

		return a.show(models.HelpScreen, a.help, false)
	case models.RevertScreen:
		if a.running {
			return a.notify(session.Failure(models.MsgRunActive))
		}

		return a.show(models.RevertScreen, models.NewRevertConfirm(a.styles, session, a.opts.PreviewRevert), true)
	case models.ProgressScreen:
		if data, ok := msg.Data.(models.ProgressData); ok && !a.running {
			a.progress = models.NewProgress(a.ctx, a.styles, session, data)
			cmd := a.show(models.ProgressScreen, a.progress, true)
			a.setRunning(a.progress.Running())

			return cmd
		}

		if a.progress != nil {
			return a.show(models.ProgressScreen, a.progress, false)
		}
	}

	return nil
}

func (a *App) setRunning(running bool) {
	a.running = running
	a.catalog.SetRunning(running)

	if !running {
		a.catalog.Refresh()
	}
}

// show makes model the visible screen. Cached models are not initialised again.
func (a *App) show(screen models.Screen, model tea.Model, init bool) tea.Cmd {
	a.screen = screen
	a.content = model

	var cmds []tea.Cmd

	if init {
		cmds = append(cmds, model.Init())
	}

	cmds = append(cmds, a.resizeContent())

	return tea.Batch(cmds...)
}

func (a *App) resizeContent() tea.Cmd {
	if a.width == 0 {
		return nil
	}

	var cmd tea.Cmd

	a.content, cmd = a.content.Update(tea.WindowSizeMsg{
		Width:  a.width,
		Height: a.contentHeight(),
	})

	return cmd
}

func (a *App) contentHeight() int {
	return max(a.height-lipgloss.Height(a.renderHeader())-1, 1)
}

// notify shows note and schedules its dismissal. A newer note cancels the
// pending dismissal of an older one.
func (a *App) notify(note application.Notification) tea.Cmd {
	if note.Empty() {
		return nil
	}

	a.notification = note
	a.noteSeq++

	seq := a.noteSeq

	duration := note.Duration
	if duration <= 0 {
		duration = application.DefaultNotificationDuration
	}

	return tea.Tick(duration, func(time.Time) tea.Msg {
		return dismissMsg{seq: seq}
	})
}

func (a *App) renderHeader() string {
	title := a.styles.Header.Render("bore " + a.opts.Version)
	mode := a.styles.MutedText.Render(application.ModeLabel(a.opts.Session.Mode()))

	parts := []string{title, "  ", mode}
	if a.running {
		parts = append(parts, "  ", a.styles.WarningText.Render("install running"))
	}

	return lipgloss.NewStyle().
		PaddingLeft(headerPadding).
		Render(lipgloss.JoinHorizontal(lipgloss.Center, parts...))
}

func (a *App) renderNotification() string {
	if a.notification.Empty() {
		return ""
	}

	style := a.styles.NotifyInfo
	if a.notification.IsError {
		style = a.styles.NotifyError
	}

	return style.Render(a.notification.Message)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return models.GoodbyeMessage
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		a.content.View(),
		a.renderNotification(),
	)
}
