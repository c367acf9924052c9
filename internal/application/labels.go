// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/boreapps/bore/internal/domain"
)

// modeTitles are the display names of the install modes.
var modeTitles = map[domain.InstallMode]string{ //nolint:gochecknoglobals
	domain.ModeAuto:   "auto install",
	domain.ModeSkip:   "skip auto install",
	domain.ModeManual: "manual step-through",
}

// ModeLabel returns the title-cased display name of mode.
func ModeLabel(mode domain.InstallMode) string {
	title, ok := modeTitles[mode]
	if !ok {
		title = strings.ReplaceAll(string(mode), "-", " ")
	}

	return cases.Title(language.English).String(title)
}
