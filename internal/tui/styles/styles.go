// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines the Tokyo Night look shared by every TUI screen.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status names understood by StatusIcon.
const (
	StatusPending     = "pending"
	StatusDownloading = "downloading"
	StatusDownloaded  = "downloaded"
	StatusLaunched    = "launched"
	StatusFailed      = "failed"
	StatusSkipped     = "skipped"
)

// Styles contains all the styles used in the TUI.
type Styles struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
	Muted     lipgloss.Color

	Header   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Card     lipgloss.Style
	Button   lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Category lipgloss.Style

	MutedText   lipgloss.Style
	PrimaryText lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style

	NotifyInfo  lipgloss.Style
	NotifyError lipgloss.Style

	// Container pads screen headers away from the terminal edge.
	Container lipgloss.Style
	Sidebar   lipgloss.Style
}

// New creates the Tokyo Night palette.
func New() *Styles {
	primary := lipgloss.Color("#7aa2f7")    // Blue
	secondary := lipgloss.Color("#bb9af7")  // Purple
	success := lipgloss.Color("#9ece6a")    // Green
	warning := lipgloss.Color("#e0af68")    // Yellow
	errorColor := lipgloss.Color("#f7768e") // Red
	info := lipgloss.Color("#7dcfff")       // Cyan
	muted := lipgloss.Color("#565f89")      // Gray

	background := lipgloss.Color("#1a1b26")
	foreground := lipgloss.Color("#c0caf5")

	return &Styles{
		Primary:   primary,
		Secondary: secondary,
		Success:   success,
		Warning:   warning,
		Error:     errorColor,
		Info:      info,
		Muted:     muted,

		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(secondary).
			Italic(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(1, 2),

		Button: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true).
			Padding(0, 2).
			MarginRight(1),

		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Padding(0, 1),

		Cursor: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),

		Category: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),

		MutedText:   lipgloss.NewStyle().Foreground(muted),
		PrimaryText: lipgloss.NewStyle().Foreground(primary),
		SuccessText: lipgloss.NewStyle().Foreground(success),
		ErrorText:   lipgloss.NewStyle().Foreground(errorColor),
		WarningText: lipgloss.NewStyle().Foreground(warning),

		NotifyInfo: lipgloss.NewStyle().
			Foreground(background).
			Background(success).
			Padding(0, 1),

		NotifyError: lipgloss.NewStyle().
			Foreground(background).
			Background(errorColor).
			Bold(true).
			Padding(0, 1),

		Container: lipgloss.NewStyle().
			Padding(0, 2),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1).
			Width(30),
	}
}

// Logo returns the styled bore wordmark.
func (s *Styles) Logo() string {
	logo := strings.Join([]string{
		"┏┓ ┏━┓┏━┓┏━╸",
		"┣┻┓┃ ┃┣┳┛┣╸ ",
		"┗━┛┗━┛╹┗╸┗━╸",
	}, "\n")

	return s.Title.Render(logo)
}

// Checkbox renders the selection box of an app row.
func (s *Styles) Checkbox(checked bool) string {
	if checked {
		return s.SuccessText.Render("[x]")
	}

	return s.MutedText.Render("[ ]")
}

// StatusIcon returns the styled icon for a task status.
func (s *Styles) StatusIcon(status string) string {
	switch status {
	case StatusLaunched, StatusDownloaded:
		return s.SuccessText.Render("✓")
	case StatusFailed:
		return s.ErrorText.Render("✗")
	case StatusDownloading:
		return s.PrimaryText.Render("⚬")
	case StatusSkipped:
		return s.WarningText.Render("-")
	case StatusPending:
		return s.MutedText.Render("○")
	}

	return "•"
}

// Keybinding returns styled keybinding text.
func (s *Styles) Keybinding(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	return keyStyle.Render("["+key+"]") + " " + s.MutedText.Render(desc)
}
