// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boreapps/bore/internal/domain"
)

func TestModeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode domain.InstallMode
		want string
	}{
		{domain.ModeAuto, "Auto Install"},
		{domain.ModeSkip, "Skip Auto Install"},
		{domain.ModeManual, "Manual Step-Through"},
		{domain.InstallMode("dry-run"), "Dry Run"},
	}

	for _, testCase := range tests {
		t.Run(string(testCase.mode), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, ModeLabel(testCase.mode))
		})
	}
}

func TestModeExplanationStartsWithLabel(t *testing.T) {
	t.Parallel()

	for _, mode := range domain.Modes() {
		label := ModeLabel(mode)
		explanation := ModeExplanation(mode)

		assert.True(t, strings.HasPrefix(explanation, label), "%q should start with %q", explanation, label)
	}
}
