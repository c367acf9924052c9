// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"fmt"
	"strings"
	"time"
)

// InstallMode selects how selected apps are processed.
type InstallMode string

// Install modes.
const (
	// ModeAuto downloads every app and launches each installer elevated right away.
	ModeAuto InstallMode = "auto"
	// ModeSkip only downloads installers and opens the download directory.
	ModeSkip InstallMode = "skip"
	// ModeManual processes one app at a time, waiting for a proceed signal in between.
	ModeManual InstallMode = "manual"
)

// Modes lists the install modes in display order.
func Modes() []InstallMode {
	return []InstallMode{ModeAuto, ModeSkip, ModeManual}
}

// ParseInstallMode converts user input into an InstallMode.
func ParseInstallMode(value string) (InstallMode, error) {
	mode := InstallMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case ModeAuto, ModeSkip, ModeManual:
		return mode, nil
	case "":
		return ModeAuto, nil
	}

	return "", fmt.Errorf("%w: %q (expected auto, skip or manual)", ErrUnknownMode, value)
}

// ManualState is the position of a manual step-through run.
type ManualState int

// Manual run states.
const (
	StateIdle ManualState = iota
	StateDownloading
	StateAwaitingNext
	StateDone
)

func (s ManualState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDownloading:
		return "downloading"
	case StateAwaitingNext:
		return "awaiting-next"
	case StateDone:
		return "done"
	}

	return "unknown"
}

// AppOutcome is the result of processing one app.
type AppOutcome struct {
	Name     string        `json:"name"`
	Path     string        `json:"path,omitempty"`
	Bytes    int64         `json:"bytes"`
	Launched bool          `json:"launched"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`

	// Process is set when the installer was launched. Waiting on it is optional.
	Process Process `json:"-"`
}

// Failed reports whether the app could not be processed.
func (o AppOutcome) Failed() bool {
	return o.Err != nil
}

// InstallReport summarizes an install run or a single manual step.
type InstallReport struct {
	RunID     string       `json:"run_id"`
	Mode      InstallMode  `json:"mode"`
	Outcomes  []AppOutcome `json:"outcomes"`
	OpenedDir bool         `json:"opened_dir"`
	State     ManualState  `json:"-"`
	Next      string       `json:"next,omitempty"` // next app awaiting the proceed signal
}

// Failed returns the outcomes that carry an error.
func (r *InstallReport) Failed() []AppOutcome {
	var failed []AppOutcome

	for _, outcome := range r.Outcomes {
		if outcome.Failed() {
			failed = append(failed, outcome)
		}
	}

	return failed
}

// Succeeded returns the names of apps processed without error.
func (r *InstallReport) Succeeded() []string {
	var names []string

	for _, outcome := range r.Outcomes {
		if !outcome.Failed() {
			names = append(names, outcome.Name)
		}
	}

	return names
}

// InstallEventKind identifies a progress event.
type InstallEventKind int

// Progress event kinds.
const (
	EventDownloading InstallEventKind = iota
	EventDownloaded
	EventLaunched
	EventFailed
	EventAwaitingNext
	EventFinished
)

// InstallEvent is emitted by the sequencer while it works.
type InstallEvent struct {
	Kind  InstallEventKind
	App   string
	Index int
	Total int
	Err   error
}

// History statuses.
const (
	HistoryDownloaded = "downloaded"
	HistoryLaunched   = "launched"
	HistoryFailed     = "failed"
)

// HistoryEntry is one recorded download attempt.
type HistoryEntry struct {
	ID        string        `json:"id"`
	RunID     string        `json:"run_id"`
	App       string        `json:"app"`
	Mode      InstallMode   `json:"mode"`
	URL       string        `json:"url"`
	Path      string        `json:"path,omitempty"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Bytes     int64         `json:"bytes"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
