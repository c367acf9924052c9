// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/domain"
	"github.com/boreapps/bore/internal/stringutil"
	"github.com/boreapps/bore/internal/tui/styles"
)

const (
	eventBuffer             = 64
	defaultProgressBarWidth = 40
	maxProgressBarWidth     = 80
)

// ProgressData is the NavigateMsg payload that starts a new run.
type ProgressData struct {
	Mode domain.InstallMode
}

// task is the display state of one app in the run.
type task struct {
	Name   string
	Status string
	Error  string
	Bytes  int64
}

// statusRank orders statuses so late events never move a task backwards.
var statusRank = map[string]int{ //nolint:gochecknoglobals
	styles.StatusPending:     0,
	styles.StatusDownloading: 1,
	styles.StatusDownloaded:  2,
	styles.StatusLaunched:    3,
	styles.StatusFailed:      3,
	styles.StatusSkipped:     3,
}

// installEventMsg carries one sequencer event and the channel to read the next from.
type installEventMsg struct {
	event  domain.InstallEvent
	events <-chan domain.InstallEvent
}

// stepDoneMsg is sent when Install or ManualNext returns.
type stepDoneMsg struct {
	report *domain.InstallReport
	note   application.Notification
}

// ProgressKeyMap defines key bindings for the progress screen.
type ProgressKeyMap struct {
	Next   key.Binding
	Cancel key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultProgressKeyMap returns the default key bindings.
func DefaultProgressKeyMap() ProgressKeyMap {
	return ProgressKeyMap{
		Next:   key.NewBinding(key.WithKeys(KeyEnter, "n"), key.WithHelp("enter", "next app")),
		Cancel: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel run")),
		Back:   key.NewBinding(key.WithKeys(KeyEsc), key.WithHelp("esc", "app list")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// Progress runs the selected apps through the session and shows each app's
// state. One sequencer step runs at a time in a command; its events come
// back over a channel. In manual mode the user confirms every next app.
//
//nolint:containedctx // the run honours the program context
type Progress struct {
	styles  *styles.Styles
	session *application.Session
	ctx     context.Context
	keyMap  ProgressKeyMap

	mode  domain.InstallMode
	tasks []task
	index map[string]int

	spinner spinner.Model
	bar     progress.Model

	busy     bool
	awaiting string
	finished bool
	note     application.Notification

	startedAt time.Time
	elapsed   time.Duration
	width     int
}

// NewProgress prepares a run over the session's selection in catalog order.
func NewProgress(ctx context.Context, styleConfig *styles.Styles, session *application.Session, data ProgressData) *Progress {
	names := session.SelectedInOrder()
	tasks := make([]task, len(names))
	index := make(map[string]int, len(names))

	for i, name := range names {
		tasks[i] = task{Name: name, Status: styles.StatusPending}
		index[name] = i
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styleConfig.PrimaryText

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = defaultProgressBarWidth

	mode := data.Mode
	if mode == "" {
		mode = session.Mode()
	}

	return &Progress{
		styles:  styleConfig,
		session: session,
		ctx:     ctx,
		keyMap:  DefaultProgressKeyMap(),
		mode:    mode,
		tasks:   tasks,
		index:   index,
		spinner: spin,
		bar:     bar,
		width:   80,
	}
}

// Running reports whether the run still holds the catalog: a step is
// executing or a manual run waits for the next app.
func (m *Progress) Running() bool {
	return !m.finished
}

// Awaiting returns the app a manual run waits to install, if any.
func (m *Progress) Awaiting() (string, bool) {
	return m.awaiting, m.awaiting != ""
}

// Statuses returns the status of every app in run order.
func (m *Progress) Statuses() map[string]string {
	out := make(map[string]string, len(m.tasks))
	for _, t := range m.tasks {
		out[t.Name] = t.Status
	}

	return out
}

func runState(running bool) tea.Cmd {
	return func() tea.Msg {
		return RunStateMsg{Running: running}
	}
}

// Init starts the run. The caller reads Running afterwards to lock the
// catalog; RunStateMsg{Running: false} is sent when the run ends.
func (m *Progress) Init() tea.Cmd {
	m.session.SetMode(m.mode)
	m.startedAt = time.Now()

	if len(m.tasks) == 0 {
		_, note := m.session.Install(m.ctx)
		m.finished = true

		return tea.Batch(Notify(note), Navigate(CatalogScreen, nil))
	}

	return m.runStep(m.session.Install)
}

// runStep executes step in a command and streams its events back.
func (m *Progress) runStep(step func(context.Context) (*domain.InstallReport, application.Notification)) tea.Cmd {
	m.busy = true

	ctx := m.ctx
	events := make(chan domain.InstallEvent, eventBuffer)

	m.session.Installer().SetObserver(func(event domain.InstallEvent) {
		select {
		case events <- event:
		case <-ctx.Done():
		}
	})

	run := func() tea.Msg {
		defer close(events)

		report, note := step(ctx)

		return stepDoneMsg{report: report, note: note}
	}

	return tea.Batch(run, waitForEvent(events), m.spinner.Tick)
}

func waitForEvent(events <-chan domain.InstallEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}

		return installEventMsg{event: event, events: events}
	}
}

// Update implements tea.Model.
func (m *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case installEventMsg:
		m.applyEvent(msg.event)

		return m, waitForEvent(msg.events)
	case stepDoneMsg:
		return m, m.finishStep(msg)
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(min(msg.Width-20, maxProgressBarWidth), 10)

		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Progress) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.busy {
		return nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Next) && m.awaiting != "":
		m.awaiting = ""

		return m.runStep(m.session.ManualNext)
	case key.Matches(msg, m.keyMap.Cancel) && m.awaiting != "":
		return m.cancel()
	case key.Matches(msg, m.keyMap.Back), key.Matches(msg, m.keyMap.Next) && m.finished:
		return Navigate(CatalogScreen, nil)
	case key.Matches(msg, m.keyMap.Quit):
		return tea.Quit
	}

	return nil
}

// cancel abandons a manual run that waits for the next app.
func (m *Progress) cancel() tea.Cmd {
	next := m.awaiting
	m.session.CancelManual()

	skipped := m.skipPending()
	m.awaiting = ""
	m.finish()

	note := m.session.Info(fmt.Sprintf("Manual install stopped before %s (%s not installed).",
		next, english.Plural(skipped, "app", "")))
	m.note = note

	return tea.Batch(Notify(note), runState(false))
}

func (m *Progress) applyEvent(event domain.InstallEvent) {
	i, ok := m.index[event.App]
	if !ok {
		return
	}

	switch event.Kind {
	case domain.EventDownloading:
		m.advance(i, styles.StatusDownloading, "")
	case domain.EventDownloaded:
		m.advance(i, styles.StatusDownloaded, "")
	case domain.EventLaunched:
		m.advance(i, styles.StatusLaunched, "")
	case domain.EventFailed:
		errText := "download failed"
		if event.Err != nil {
			errText = event.Err.Error()
		}

		m.advance(i, styles.StatusFailed, errText)
	case domain.EventAwaitingNext, domain.EventFinished:
	}
}

func (m *Progress) advance(i int, status, errText string) {
	if statusRank[status] <= statusRank[m.tasks[i].Status] {
		return
	}

	m.tasks[i].Status = status
	m.tasks[i].Error = errText
}

// finishStep applies the report of a finished step. Outcomes in the report
// are final, whatever events are still in flight.
func (m *Progress) finishStep(msg stepDoneMsg) tea.Cmd {
	m.busy = false
	m.note = msg.note

	if msg.report == nil {
		m.finish()

		return tea.Batch(Notify(msg.note), runState(false))
	}

	for _, outcome := range msg.report.Outcomes {
		i, ok := m.index[outcome.Name]
		if !ok {
			continue
		}

		m.tasks[i].Bytes = outcome.Bytes

		switch {
		case outcome.Failed():
			m.tasks[i].Status = styles.StatusFailed
			m.tasks[i].Error = outcome.Err.Error()
		case outcome.Launched:
			m.tasks[i].Status = styles.StatusLaunched
		default:
			m.tasks[i].Status = styles.StatusDownloaded
		}
	}

	if msg.report.State == domain.StateAwaitingNext {
		m.awaiting = msg.report.Next

		return Notify(msg.note)
	}

	m.skipPending()
	m.finish()

	return tea.Batch(Notify(msg.note), runState(false))
}

func (m *Progress) finish() {
	m.finished = true
	m.elapsed = time.Since(m.startedAt)
}

// skipPending marks apps that were never attempted and returns how many.
func (m *Progress) skipPending() int {
	skipped := 0

	for i := range m.tasks {
		if m.tasks[i].Status == styles.StatusPending {
			m.tasks[i].Status = styles.StatusSkipped
			skipped++
		}
	}

	return skipped
}

func (m *Progress) counts() (done, failed int) {
	for _, t := range m.tasks {
		switch t.Status {
		case styles.StatusFailed:
			failed++
			done++
		case styles.StatusDownloaded, styles.StatusLaunched, styles.StatusSkipped:
			done++
		}
	}

	return done, failed
}

// View implements tea.Model.
func (m *Progress) View() string {
	done, failed := m.counts()
	total := len(m.tasks)

	title := m.styles.Title.Render(fmt.Sprintf("Installing %d apps · %s", total, application.ModeLabel(m.mode)))

	fraction := 0.0
	if total > 0 {
		fraction = float64(done) / float64(total)
	}

	overall := lipgloss.JoinHorizontal(lipgloss.Center,
		m.bar.ViewAs(fraction),
		m.styles.MutedText.Render(fmt.Sprintf("  %d/%d", done, total)),
	)

	lines := make([]string, 0, len(m.tasks))
	for _, t := range m.tasks {
		lines = append(lines, m.renderTask(t))
	}

	sections := []string{title, overall, "", strings.Join(lines, "\n"), ""}

	switch {
	case m.awaiting != "":
		sections = append(sections,
			m.styles.PrimaryText.Render("Ready to install: "+m.awaiting),
			m.styles.Button.Render("Next App"))
	case m.finished:
		summary := m.note.Message
		style := m.styles.SuccessText

		if failed > 0 || m.note.IsError {
			style = m.styles.ErrorText
		}

		sections = append(sections,
			style.Render(summary),
			m.styles.MutedText.Render(fmt.Sprintf("Installers are in %s · took %s",
				m.session.Installer().DownloadDir(), m.elapsed.Round(time.Second))))
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Progress) renderTask(t task) string {
	icon := m.styles.StatusIcon(t.Status)
	if t.Status == styles.StatusDownloading && m.busy {
		icon = m.spinner.View()
	}

	line := fmt.Sprintf("%s %s", icon, t.Name)

	detail := t.Status
	if t.Bytes > 0 {
		detail += " · " + humanize.Bytes(uint64(t.Bytes))
	}

	line += "  " + m.styles.MutedText.Render(detail)

	if t.Error != "" {
		line += "\n    " + m.styles.ErrorText.Render(stringutil.Truncate(t.Error, max(m.width-6, 20)))
	}

	return line
}

func (m *Progress) renderFooter() string {
	switch {
	case m.busy:
		return RenderFooter(m.styles, m.width)
	case m.awaiting != "":
		return RenderFooter(m.styles, m.width, m.keyMap.Next, m.keyMap.Cancel, m.keyMap.Back, m.keyMap.Quit)
	}

	return RenderFooter(m.styles, m.width, m.keyMap.Back, m.keyMap.Quit)
}
