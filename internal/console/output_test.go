// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package console

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturedOutput() (*OutputState, *bytes.Buffer, *bytes.Buffer) {
	var out, log bytes.Buffer

	state := &OutputState{}
	state.SetOutputWriter(&out)
	state.SetLogWriter(&log)

	return state, &out, &log
}

func TestProgressfOnlyWhenVerbose(t *testing.T) {
	t.Parallel()

	state, _, log := newCapturedOutput()

	state.Progressf("downloading %s", "Steam")
	assert.Empty(t, log.String())

	state.SetMode(true, false, false)
	state.Progressf("downloading %s", "Steam")
	assert.Equal(t, "downloading Steam\n", log.String())
}

func TestMessagePrefixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		plain bool
		emit  func(o *OutputState)
		want  string
	}{
		{"success", false, func(o *OutputState) { o.Successf("saved") }, "✓ saved\n"},
		{"success suppressed in plain", true, func(o *OutputState) { o.Successf("saved") }, ""},
		{"warning", false, func(o *OutputState) { o.Warningf("slow") }, "⚠ slow\n"},
		{"warning plain", true, func(o *OutputState) { o.Warningf("slow") }, "warning: slow\n"},
		{"error", false, func(o *OutputState) { o.Errorf("boom") }, "✗ boom\n"},
		{"error plain", true, func(o *OutputState) { o.Errorf("boom") }, "error: boom\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			state, _, log := newCapturedOutput()
			state.SetMode(false, false, testCase.plain)
			testCase.emit(state)

			assert.Equal(t, testCase.want, log.String())
		})
	}
}

func TestErrorResultJSON(t *testing.T) {
	t.Parallel()

	state, out, log := newCapturedOutput()
	state.SetMode(false, true, false)

	state.ErrorResult(errors.New("catalog missing"), 3)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, "error", payload["status"])
	assert.Equal(t, "catalog missing", payload["error"])
	assert.InDelta(t, 3, payload["code"], 0)
	assert.Contains(t, log.String(), "catalog missing")
}

func TestPlainHelpers(t *testing.T) {
	t.Parallel()

	state, out, _ := newCapturedOutput()

	state.PlainList([]string{"Discord", "Steam"})
	state.PlainKeyValue("mode", "skip")

	assert.Equal(t, "Discord\nSteam\nmode:skip\n", out.String())
}

func TestBoldWithoutTerminal(t *testing.T) {
	t.Parallel()

	state, _, _ := newCapturedOutput()
	state.SetMode(false, false, true)
	assert.Equal(t, "Apps", state.Bold("Apps"))
}
