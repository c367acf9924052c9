// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boreapps/bore/internal/adapters/platform"
	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T, doc string) (*catalog.Editor, *catalog.Store) {
	t.Helper()

	files := platform.NewFileManager(false)
	store := catalog.NewStore(writeDocument(t, doc), files)

	_, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.CaptureDefault())

	return catalog.NewEditor(store, files, filepath.Join(t.TempDir(), "icons")), store
}

func reload(t *testing.T, store *catalog.Store) *catalog.Catalog {
	t.Helper()

	c, err := catalog.NewStore(store.Path(), platform.NewFileManager(false)).Load()
	require.NoError(t, err)

	return c
}

func TestEditorAddApp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		entry        domain.AppEntry
		wantCategory string
		wantErr      error
	}{
		{"into existing category", app("Bravo", "A"), "A", nil},
		{"creates category", app("Slack", "Chat"), "Chat", nil},
		{"blank category goes to Other", domain.AppEntry{Name: "Foo", URL: "u", Icon: "i", Category: "  "}, domain.CategoryOther, nil},
		{"missing url", domain.AppEntry{Name: "Foo", Icon: "i"}, "", domain.ErrValidation},
		{"missing icon", domain.AppEntry{Name: "Foo", URL: "u"}, "", domain.ErrValidation},
		{"missing name", domain.AppEntry{URL: "u", Icon: "i"}, "", domain.ErrValidation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			editor, store := newEditor(t, sampleDocument)

			added, err := editor.AddApp(testCase.entry)
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)
				assert.Equal(t, 4, store.Current().Len())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.wantCategory, added.Category)

			persisted, ok := reload(t, store).Lookup(added.Name)
			require.True(t, ok)
			assert.Equal(t, testCase.wantCategory, persisted.Category)
		})
	}
}

func TestEditorAddAppNewCategoryBeforeOther(t *testing.T) {
	t.Parallel()

	editor, store := newEditor(t, sampleDocument)

	_, err := editor.AddApp(app("Slack", "Chat"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "Chat", domain.CategoryOther}, store.Current().CategoryNames())
	assert.Equal(t, store.Current().CategoryNames(), reload(t, store).CategoryNames())
}

func TestEditorAddAppKeepsNamesUnique(t *testing.T) {
	t.Parallel()

	editor, store := newEditor(t, sampleDocument)

	_, err := editor.AddApp(app("Beta", "A"))
	require.NoError(t, err)

	c := store.Current()
	assert.Equal(t, []string{"A", domain.CategoryOther}, c.CategoryNames())
	assert.Equal(t, []string{"Alpha", "Beta", "Zoom", "Misc"}, c.Names())
}

func TestEditorEditAppMovesCategory(t *testing.T) {
	t.Parallel()

	editor, store := newEditor(t, sampleDocument)

	edited, err := editor.EditApp(domain.AppEntry{Name: "Beta", URL: "https://example.com/beta2.msi", Icon: "b2.png", Category: "A"})
	require.NoError(t, err)
	assert.Equal(t, "A", edited.Category)

	c := reload(t, store)
	assert.False(t, c.HasCategory("B"))

	beta, ok := c.Lookup("Beta")
	require.True(t, ok)
	assert.Equal(t, domain.AppEntry{Name: "Beta", URL: "https://example.com/beta2.msi", Icon: "b2.png", Category: "A"}, beta)

	a, _ := c.Category("A")
	require.Len(t, a.Apps, 3)
	assert.Equal(t, "Beta", a.Apps[1].Name)
}

func TestEditorEditAppErrors(t *testing.T) {
	t.Parallel()

	editor, store := newEditor(t, sampleDocument)

	_, err := editor.EditApp(app("Nope", "A"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = editor.EditApp(domain.AppEntry{Name: "Zoom", URL: "u"})
	require.ErrorIs(t, err, domain.ErrValidation)

	zoom, _ := store.Lookup("Zoom")
	assert.Equal(t, "zoom.png", zoom.Icon)
}

func TestEditorRemoveApp(t *testing.T) {
	t.Parallel()

	editor, store := newEditor(t, sampleDocument)

	before, err := store.Raw()
	require.NoError(t, err)

	_, err = editor.RemoveApp("Nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	after, err := store.Raw()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	removed, err := editor.RemoveApp("Beta")
	require.NoError(t, err)
	assert.Equal(t, "B", removed.Category)
	assert.Equal(t, []string{"A", domain.CategoryOther}, reload(t, store).CategoryNames())
}

func TestEditorAddCategory(t *testing.T) {
	t.Parallel()

	editor, store := newEditor(t, sampleDocument)

	_, err := editor.AddCategory("   ")
	require.ErrorIs(t, err, domain.ErrValidation)

	created, err := editor.AddCategory("Games")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = editor.AddCategory("Games")
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, []string{"A", "B", "Games", domain.CategoryOther}, store.Current().CategoryNames())

	// Empty categories are not written to the document
	assert.False(t, reload(t, store).HasCategory("Games"))

	_, err = editor.AddApp(app("Steam", "Games"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "Games", domain.CategoryOther}, reload(t, store).CategoryNames())
}

func TestEditorDeleteCategory(t *testing.T) {
	t.Parallel()

	editor, store := newEditor(t, sampleDocument)

	moved, err := editor.DeleteCategory("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Zoom"}, moved)

	c := reload(t, store)
	assert.Equal(t, []string{"B", domain.CategoryUncategorized, domain.CategoryOther}, c.CategoryNames())

	uncategorized, ok := c.Category(domain.CategoryUncategorized)
	require.True(t, ok)

	for _, entry := range uncategorized.Apps {
		assert.Equal(t, domain.CategoryUncategorized, entry.Category)
	}

	_, err = editor.DeleteCategory("A")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = editor.DeleteCategory(domain.CategoryUncategorized)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 4, store.Current().Len())
}

func TestEditorDeleteOtherCategory(t *testing.T) {
	t.Parallel()

	editor, store := newEditor(t, sampleDocument)

	moved, err := editor.DeleteCategory(domain.CategoryOther)
	require.NoError(t, err)
	assert.Equal(t, []string{"Misc"}, moved)
	assert.Equal(t, []string{"A", "B", domain.CategoryUncategorized}, store.Current().CategoryNames())
}

func TestEditorPreviewRevert(t *testing.T) {
	t.Parallel()

	editor, _ := newEditor(t, sampleDocument)

	_, err := editor.RemoveApp("Misc")
	require.NoError(t, err)

	diff, err := editor.PreviewRevert()
	require.NoError(t, err)
	assert.False(t, diff.Identical())
	assert.Contains(t, diff.String(), `+     "Misc"`)
}

func TestEditorImportIcon(t *testing.T) {
	t.Parallel()

	editor, _ := newEditor(t, sampleDocument)

	src := filepath.Join(t.TempDir(), "discord.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0600))

	name, err := editor.ImportIcon(src)
	require.NoError(t, err)
	assert.Equal(t, "discord.png", name)

	// A second import keeps the existing copy
	require.NoError(t, os.WriteFile(src, []byte("other"), 0600))
	name, err = editor.ImportIcon(src)
	require.NoError(t, err)
	assert.Equal(t, "discord.png", name)

	_, err = editor.ImportIcon(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorIs(t, err, domain.ErrIO)

	_, err = editor.ImportIcon(" ")
	require.ErrorIs(t, err, domain.ErrValidation)
}
