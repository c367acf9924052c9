// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
)

// Editor applies user edits to the store's catalog and persists each one.
// Every mutation runs on a clone which only replaces the current catalog
// once it has been saved.
type Editor struct {
	store    *Store
	files    domain.FileManager
	iconsDir string
}

// NewEditor creates an editor over store. iconsDir receives imported icons.
func NewEditor(store *Store, files domain.FileManager, iconsDir string) *Editor {
	return &Editor{
		store:    store,
		files:    files,
		iconsDir: iconsDir,
	}
}

func (e *Editor) mutate(apply func(*Catalog) error) error {
	clone := e.store.Current().Clone()
	if err := apply(clone); err != nil {
		return err
	}

	return e.store.Save(clone)
}

// AddApp adds entry or overwrites the app with the same name.
// A blank category files the app under "Other".
func (e *Editor) AddApp(entry domain.AppEntry) (domain.AppEntry, error) {
	entry = entry.Normalize()
	if err := entry.Validate(); err != nil {
		return domain.AppEntry{}, err
	}

	err := e.mutate(func(c *Catalog) error {
		c.put(entry)
		return nil
	})
	if err != nil {
		return domain.AppEntry{}, err
	}

	console.DefaultOutput.Progressf("Added %s to %s", entry.Name, entry.Category)

	return entry, nil
}

// EditApp rewrites the url, icon and category of an existing app.
// Changing the category moves the app, dropping the old category if it empties.
func (e *Editor) EditApp(entry domain.AppEntry) (domain.AppEntry, error) {
	entry = entry.Normalize()
	if err := entry.Validate(); err != nil {
		return domain.AppEntry{}, err
	}

	err := e.mutate(func(c *Catalog) error {
		if _, ok := c.Lookup(entry.Name); !ok {
			return domain.NewAppNotFound(entry.Name)
		}

		c.put(entry)

		return nil
	})
	if err != nil {
		return domain.AppEntry{}, err
	}

	console.DefaultOutput.Progressf("Edited %s in %s", entry.Name, entry.Category)

	return entry, nil
}

// RemoveApp deletes the named app. Its category is dropped when it empties.
func (e *Editor) RemoveApp(name string) (domain.AppEntry, error) {
	name = strings.TrimSpace(name)

	var removed domain.AppEntry

	err := e.mutate(func(c *Catalog) error {
		entry, ok := c.remove(name)
		if !ok {
			return domain.NewAppNotFound(name)
		}

		removed = entry

		return nil
	})
	if err != nil {
		return domain.AppEntry{}, err
	}

	console.DefaultOutput.Progressf("Removed %s from %s", removed.Name, removed.Category)

	return removed, nil
}

// AddCategory creates an empty category and reports whether it was new.
// Empty categories are kept in memory only until an app is filed under them.
func (e *Editor) AddCategory(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, domain.NewValidationError("category")
	}

	current := e.store.Current()
	if current.HasCategory(name) {
		return false, nil
	}

	clone := current.Clone()
	clone.ensureCategory(name)
	e.store.current = clone

	return true, nil
}

// DeleteCategory moves every app of name to "Uncategorized" and drops name.
// It returns the names of the moved apps.
func (e *Editor) DeleteCategory(name string) ([]string, error) {
	name = strings.TrimSpace(name)

	var moved []string

	err := e.mutate(func(c *Catalog) error {
		category, ok := c.Category(name)
		if !ok {
			return domain.NewCategoryNotFound(name)
		}

		if name == domain.CategoryUncategorized {
			if len(category.Apps) > 0 {
				return &domain.ValidationError{
					Field:   "category",
					Message: fmt.Sprintf("cannot delete %q while it holds apps", name),
				}
			}

			c.dropCategory(name)

			return nil
		}

		c.dropCategory(name)

		for _, app := range category.Apps {
			app.Category = domain.CategoryUncategorized
			c.put(app)
			moved = append(moved, app.Name)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	console.DefaultOutput.Progressf("Deleted category %s, moved %d apps", name, len(moved))

	return moved, nil
}

// Revert restores the document captured at startup.
func (e *Editor) Revert() (*Catalog, error) {
	return e.store.RestoreDefault()
}

// PreviewRevert compares the current document with the default snapshot.
func (e *Editor) PreviewRevert() (DiffSummary, error) {
	current, err := e.store.Raw()
	if err != nil {
		return DiffSummary{}, err
	}

	return DiffDocuments(current, e.store.Snapshot()), nil
}

// ImportIcon copies an image into the icons directory and returns the
// file name to store in an entry. An existing icon of that name is kept.
func (e *Editor) ImportIcon(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", domain.NewValidationError("icon")
	}

	name := filepath.Base(src)
	dest := filepath.Join(e.iconsDir, name)

	if e.files.FileExists(dest) {
		return name, nil
	}

	if err := e.files.EnsureDir(e.iconsDir); err != nil {
		return "", fmt.Errorf("create icons directory: %w: %w", domain.ErrIO, err)
	}

	if err := e.files.CopyFile(src, dest); err != nil {
		return "", fmt.Errorf("copy icon %s: %w: %w", src, domain.ErrIO, err)
	}

	return name, nil
}
