// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package selection tracks which apps are checked for installation.
package selection

import (
	"slices"
)

// Model is the set of checked app names. It is independent of the catalog
// and not safe for concurrent use.
type Model struct {
	checked map[string]bool
}

// New creates an empty selection.
func New(names ...string) *Model {
	model := &Model{checked: make(map[string]bool, len(names))}
	for _, name := range names {
		model.checked[name] = true
	}

	return model
}

// Toggle flips the checkbox of name and returns the new state.
func (m *Model) Toggle(name string) bool {
	m.Set(name, !m.checked[name])

	return m.checked[name]
}

// Set checks or unchecks name.
func (m *Model) Set(name string, selected bool) {
	if selected {
		m.checked[name] = true
	} else {
		delete(m.checked, name)
	}
}

// IsSelected reports whether name is checked.
func (m *Model) IsSelected(name string) bool {
	return m.checked[name]
}

// Len returns the number of checked names.
func (m *Model) Len() int {
	return len(m.checked)
}

// SelectedNames returns the checked names sorted.
func (m *Model) SelectedNames() []string {
	names := make([]string, 0, len(m.checked))
	for name := range m.checked {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Resolve returns the checked names in the given order. Names that are
// checked but absent from order are left out.
func (m *Model) Resolve(order []string) []string {
	var resolved []string

	for _, name := range order {
		if m.checked[name] {
			resolved = append(resolved, name)
		}
	}

	return resolved
}

// Prune unchecks every name that is not in known.
func (m *Model) Prune(known []string) {
	keep := make(map[string]bool, len(known))
	for _, name := range known {
		keep[name] = true
	}

	for name := range m.checked {
		if !keep[name] {
			delete(m.checked, name)
		}
	}
}

// Clear unchecks everything.
func (m *Model) Clear() {
	clear(m.checked)
}
