// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "strings"

// Well-known category names.
const (
	// CategoryOther receives apps with no category and is always listed last.
	CategoryOther = "Other"
	// CategoryUncategorized receives the apps of a deleted category.
	CategoryUncategorized = "Uncategorized"
)

// AppEntry is a single installable application in the catalog.
// Name is the identity and is unique across the whole catalog.
type AppEntry struct {
	Name     string `json:"name" yaml:"name"`
	URL      string `json:"url" yaml:"url"`
	Icon     string `json:"icon" yaml:"icon"`
	Category string `json:"category" yaml:"category"`
}

// Normalize trims every field and defaults a blank category to CategoryOther.
func (a AppEntry) Normalize() AppEntry {
	a.Name = strings.TrimSpace(a.Name)
	a.URL = strings.TrimSpace(a.URL)
	a.Icon = strings.TrimSpace(a.Icon)

	a.Category = strings.TrimSpace(a.Category)
	if a.Category == "" {
		a.Category = CategoryOther
	}

	return a
}

// Validate reports the first required field that is blank.
func (a AppEntry) Validate() error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return NewValidationError("name")
	case strings.TrimSpace(a.Icon) == "":
		return NewValidationError("icon")
	case strings.TrimSpace(a.URL) == "":
		return NewValidationError("url")
	}

	return nil
}
