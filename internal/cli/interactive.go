// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/domain"
)

// ErrFormAborted is returned when the user leaves a form without submitting.
var ErrFormAborted = errors.New("form aborted")

func required(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New(label + " is required")
		}

		return nil
	}
}

// buildAppForm asks for the fields of an app. When editing, the name is fixed.
func buildAppForm(entry *domain.AppEntry, categories []string, editing bool) *huh.Form {
	var fields []huh.Field

	if !editing {
		fields = append(fields, huh.NewInput().
			Title("App name").
			Placeholder("Zoom").
			Validate(required("name")).
			Value(&entry.Name))
	}

	fields = append(fields,
		huh.NewInput().
			Title("Download link").
			Description("Direct link to the installer").
			Placeholder("https://example.com/setup.exe").
			Validate(required("download link")).
			Value(&entry.URL),
		huh.NewInput().
			Title("Icon").
			Description("File name inside the icons directory").
			Placeholder("zoom.png").
			Validate(required("icon")).
			Value(&entry.Icon),
		huh.NewInput().
			Title("Category").
			Description("Leave empty for "+domain.CategoryOther).
			Suggestions(categories).
			Value(&entry.Category),
	)

	title := "Add app"
	if editing {
		title = "Edit " + entry.Name
	}

	return huh.NewForm(
		huh.NewGroup(fields...).Title(title),
	).WithTheme(huh.ThemeCharm())
}

// runAppForm fills entry interactively.
func runAppForm(entry *domain.AppEntry, categories []string, editing bool) error {
	if err := buildAppForm(entry, categories, editing).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrFormAborted
		}

		return err
	}

	return nil
}

// installChoice is what the install picker collects.
type installChoice struct {
	Apps []string
	Mode domain.InstallMode
}

// buildInstallForm lets the user tick apps grouped by category and pick a mode.
func buildInstallForm(current *catalog.Catalog, choice *installChoice) *huh.Form {
	var options []huh.Option[string]

	for _, category := range current.Categories() {
		for _, entry := range category.Apps {
			options = append(options, huh.NewOption(category.Name+" / "+entry.Name, entry.Name))
		}
	}

	modes := make([]huh.Option[domain.InstallMode], 0, len(domain.Modes()))
	for _, mode := range domain.Modes() {
		modes = append(modes, huh.NewOption(application.ModeLabel(mode), mode))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select apps to install").
				Options(options...).
				Validate(func(selected []string) error {
					if len(selected) == 0 {
						return errors.New("please select at least one app to install")
					}

					return nil
				}).
				Value(&choice.Apps),
			huh.NewSelect[domain.InstallMode]().
				Title("Install mode").
				Options(modes...).
				DescriptionFunc(func() string {
					return application.ModeExplanation(choice.Mode)
				}, &choice.Mode).
				Value(&choice.Mode),
		),
	).WithTheme(huh.ThemeCharm())
}

// runInstallForm asks which apps to install and how.
func runInstallForm(current *catalog.Catalog, choice *installChoice) error {
	if err := buildInstallForm(current, choice).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrFormAborted
		}

		return err
	}

	return nil
}
