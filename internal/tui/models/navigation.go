// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models implements the TUI screens using Bubble Tea.
package models

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/boreapps/bore/internal/application"
)

// Screen identifies a TUI screen.
type Screen int

// Screens.
const (
	CatalogScreen Screen = iota
	EditorScreen
	ModeScreen
	HelpScreen
	ProgressScreen
	RevertScreen
)

// Key names shared by the screens.
const (
	KeyEnter = "enter"
	KeyEsc   = "esc"
)

// GoodbyeMessage is shown when the program quits.
const GoodbyeMessage = "Bye!\n"

// NavigateMsg asks the root model to switch screens.
type NavigateMsg struct {
	Screen Screen
	Data   any // Screen-specific input such as EditorData
}

// NotifyMsg asks the root model to show a notification.
type NotifyMsg struct {
	Notification application.Notification
}

// RunStateMsg tells the root model whether an install run is active.
// Catalog edits are refused while it is.
type RunStateMsg struct {
	Running bool
}

// Navigate returns a command that switches to screen.
func Navigate(screen Screen, data any) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen, Data: data}
	}
}

// Notify returns a command that shows note, or nil when note is empty.
func Notify(note application.Notification) tea.Cmd {
	if note.Empty() {
		return nil
	}

	return func() tea.Msg {
		return NotifyMsg{Notification: note}
	}
}
