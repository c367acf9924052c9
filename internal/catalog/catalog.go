// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package catalog holds the categorized app list, its JSON document format
// and the operations that edit and persist it.
package catalog

import (
	"slices"
	"strings"

	"github.com/boreapps/bore/internal/domain"
)

// Category is a named group of apps sorted by name.
type Category struct {
	Name string
	Apps []domain.AppEntry
}

// Catalog is the ordered list of categories.
// Categories keep first-seen order, new ones are appended, and
// domain.CategoryOther always sorts last.
type Catalog struct {
	categories []*Category
}

// New builds a catalog from entries in the given order.
// A later entry with the same name replaces the earlier one.
func New(entries ...domain.AppEntry) *Catalog {
	catalog := &Catalog{}
	for _, entry := range entries {
		catalog.put(entry.Normalize())
	}

	return catalog
}

// Categories returns a copy of the categories in display order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.categories))
	for _, category := range c.categories {
		out = append(out, Category{Name: category.Name, Apps: slices.Clone(category.Apps)})
	}

	return out
}

// CategoryNames returns the category names in display order.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c.categories))
	for _, category := range c.categories {
		names = append(names, category.Name)
	}

	return names
}

// Category returns the named category.
func (c *Catalog) Category(name string) (Category, bool) {
	idx := c.indexOf(name)
	if idx < 0 {
		return Category{}, false
	}

	category := c.categories[idx]

	return Category{Name: category.Name, Apps: slices.Clone(category.Apps)}, true
}

// HasCategory reports whether a category with this exact name exists.
func (c *Catalog) HasCategory(name string) bool {
	return c.indexOf(name) >= 0
}

// Lookup finds an app by name in any category.
func (c *Catalog) Lookup(name string) (domain.AppEntry, bool) {
	_, appIdx, category := c.find(name)
	if category == nil {
		return domain.AppEntry{}, false
	}

	return category.Apps[appIdx], true
}

// Apps returns every app in display order.
func (c *Catalog) Apps() []domain.AppEntry {
	var apps []domain.AppEntry
	for _, category := range c.categories {
		apps = append(apps, category.Apps...)
	}

	return apps
}

// Names returns every app name in display order.
func (c *Catalog) Names() []string {
	var names []string
	for _, category := range c.categories {
		for _, app := range category.Apps {
			names = append(names, app.Name)
		}
	}

	return names
}

// Len returns the number of apps.
func (c *Catalog) Len() int {
	total := 0
	for _, category := range c.categories {
		total += len(category.Apps)
	}

	return total
}

// Clone returns a deep copy.
func (c *Catalog) Clone() *Catalog {
	clone := &Catalog{categories: make([]*Category, 0, len(c.categories))}
	for _, category := range c.categories {
		clone.categories = append(clone.categories, &Category{
			Name: category.Name,
			Apps: slices.Clone(category.Apps),
		})
	}

	return clone
}

func (c *Catalog) indexOf(name string) int {
	return slices.IndexFunc(c.categories, func(category *Category) bool {
		return category.Name == name
	})
}

func (c *Catalog) find(name string) (int, int, *Category) {
	for catIdx, category := range c.categories {
		for appIdx, app := range category.Apps {
			if app.Name == name {
				return catIdx, appIdx, category
			}
		}
	}

	return -1, -1, nil
}

// ensureCategory returns the named category, creating it before "Other".
func (c *Catalog) ensureCategory(name string) *Category {
	if idx := c.indexOf(name); idx >= 0 {
		return c.categories[idx]
	}

	category := &Category{Name: name}

	other := c.indexOf(domain.CategoryOther)
	if name == domain.CategoryOther || other < 0 {
		c.categories = append(c.categories, category)
	} else {
		c.categories = slices.Insert(c.categories, other, category)
	}

	return category
}

// put inserts or replaces entry, moving it out of any other category.
func (c *Catalog) put(entry domain.AppEntry) {
	if catIdx, appIdx, current := c.find(entry.Name); current != nil {
		if current.Name == entry.Category {
			current.Apps[appIdx] = entry
			return
		}

		c.removeAt(catIdx, appIdx)
	}

	category := c.ensureCategory(entry.Category)
	pos, _ := slices.BinarySearchFunc(category.Apps, entry.Name, func(app domain.AppEntry, name string) int {
		return strings.Compare(app.Name, name)
	})
	category.Apps = slices.Insert(category.Apps, pos, entry)
}

// remove deletes the named app and drops its category when it becomes empty.
func (c *Catalog) remove(name string) (domain.AppEntry, bool) {
	catIdx, appIdx, category := c.find(name)
	if category == nil {
		return domain.AppEntry{}, false
	}

	entry := category.Apps[appIdx]
	c.removeAt(catIdx, appIdx)

	return entry, true
}

func (c *Catalog) removeAt(catIdx, appIdx int) {
	category := c.categories[catIdx]

	category.Apps = slices.Delete(category.Apps, appIdx, appIdx+1)
	if len(category.Apps) == 0 {
		c.categories = slices.Delete(c.categories, catIdx, catIdx+1)
	}
}

func (c *Catalog) dropCategory(name string) {
	if idx := c.indexOf(name); idx >= 0 {
		c.categories = slices.Delete(c.categories, idx, idx+1)
	}
}
