// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/catalog"
	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
	"github.com/boreapps/bore/internal/stringutil"
)

// urlColumnWidth bounds the URL column of list tables.
const urlColumnWidth = 60

// ErrMissingArgument is returned when a command needs a positional argument.
var ErrMissingArgument = errors.New("missing argument")

func (app *CLI) createListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the apps in the catalog by category",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "only list this category"},
		},
		Action: app.withRuntime(app.runList),
	}
}

func (app *CLI) runList(_ context.Context, cmd *cli.Command, rt *runtime) error {
	result, err := listResult(rt.store.Current(), cmd.String("category"))
	if err != nil {
		return err
	}

	output := app.output()
	if output.Structured() {
		return output.Success("", result)
	}

	if app.plain {
		for _, info := range result.Categories {
			for _, entry := range info.Apps {
				console.DefaultOutput.PlainKeyValue(entry.Name, entry.Category)
			}
		}

		return nil
	}

	rows := make([][]string, 0, result.Total)

	for _, info := range result.Categories {
		for _, entry := range info.Apps {
			rows = append(rows, []string{info.Name, entry.Name, entry.Icon, stringutil.Truncate(entry.URL, urlColumnWidth)})
		}
	}

	if err := output.Table([]string{"CATEGORY", "NAME", "ICON", "URL"}, rows); err != nil {
		return err
	}

	return output.Info(fmt.Sprintf("%d apps in %d categories", result.Total, len(result.Categories)))
}

// listResult converts the catalog into its output form, optionally for one category.
func listResult(current *catalog.Catalog, only string) (domain.ListResult, error) {
	result := domain.ListResult{Categories: []domain.CategoryInfo{}}

	for _, category := range current.Categories() {
		if only != "" && category.Name != only {
			continue
		}

		result.Categories = append(result.Categories, domain.CategoryInfo{Name: category.Name, Apps: category.Apps})
		result.Total += len(category.Apps)
	}

	if only != "" && len(result.Categories) == 0 {
		return result, domain.NewCategoryNotFound(only)
	}

	return result, nil
}

func (app *CLI) createShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one app, or the whole app list document",
		ArgsUsage: "[NAME]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "raw", Usage: "print the document without syntax highlighting"},
		},
		Action: app.withRuntime(app.runShow),
	}
}

func (app *CLI) runShow(_ context.Context, cmd *cli.Command, rt *runtime) error {
	output := app.output()

	if name := cmd.Args().First(); name != "" {
		entry, ok := rt.store.Lookup(name)
		if !ok {
			return domain.NewAppNotFound(name)
		}

		if output.Structured() {
			return output.Success("", entry)
		}

		fields := [][]string{
			{"Name", entry.Name},
			{"Category", entry.Category},
			{"Icon", entry.Icon},
			{"URL", entry.URL},
		}

		if !app.plain {
			return output.Table([]string{"FIELD", "VALUE"}, fields)
		}

		for _, field := range fields {
			console.DefaultOutput.PlainKeyValue(field[0], field[1])
		}

		return nil
	}

	data, err := rt.store.Raw()
	if err != nil {
		return err
	}

	if cmd.Bool("raw") || app.plain || output.Structured() || !console.DefaultOutput.ColorEnabled() {
		_, err = app.stdout.Write(data)

		return err
	}

	_, err = fmt.Fprint(app.stdout, highlightJSON(string(data)))

	return err
}

func (app *CLI) createAddCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add an app to the catalog",
		Description: `Adds an app, or moves it when the name already exists. Without flags on a
terminal a form asks for the fields.

Examples:
  bore add --name Zoom --url https://zoom.us/ZoomInstaller.exe --icon zoom.png --category Chat
  bore add --name Zoom --url https://zoom.us/ZoomInstaller.exe --icon-file ~/Pictures/zoom.png`,
		Flags: appEntryFlags(true),
		Action: app.withRuntime(func(_ context.Context, cmd *cli.Command, rt *runtime) error {
			entry := entryFromFlags(cmd)

			if !anyEntryFlag(cmd) && app.tty() {
				if err := runAppForm(&entry, rt.store.Current().CategoryNames(), false); err != nil {
					return err
				}
			}

			if err := app.importIcon(cmd, rt, &entry); err != nil {
				return err
			}

			return app.notify(rt.session.AddApp(entry), domain.MutationResult{Action: "add", App: entry.Name, Category: categoryOf(rt, entry.Name)})
		}),
	}
}

func (app *CLI) createEditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change the link, icon or category of an app",
		ArgsUsage: "NAME",
		Flags:     appEntryFlags(false),
		Action: app.withRuntime(func(_ context.Context, cmd *cli.Command, rt *runtime) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("%w: app name", ErrMissingArgument)
			}

			existing, ok := rt.store.Lookup(name)
			if !ok {
				return domain.NewExitError(ExitNotFoundError, "App not found to edit.", domain.NewAppNotFound(name))
			}

			entry := mergeEntry(existing, entryFromFlags(cmd))

			if !anyEntryFlag(cmd) && app.tty() {
				if err := runAppForm(&entry, rt.store.Current().CategoryNames(), true); err != nil {
					return err
				}
			}

			if err := app.importIcon(cmd, rt, &entry); err != nil {
				return err
			}

			return app.notify(rt.session.EditApp(entry), domain.MutationResult{Action: "edit", App: entry.Name, Category: categoryOf(rt, entry.Name)})
		}),
	}
}

func (app *CLI) createRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove apps from the catalog",
		ArgsUsage: "NAME...",
		Action: app.withRuntime(func(_ context.Context, cmd *cli.Command, rt *runtime) error {
			names := cmd.Args().Slice()
			if len(names) == 0 {
				return fmt.Errorf("%w: app name", ErrMissingArgument)
			}

			for _, name := range names {
				if err := app.notify(rt.session.RemoveApp(name), domain.MutationResult{Action: "remove", App: name}); err != nil {
					return err
				}
			}

			return nil
		}),
	}
}

func (app *CLI) createCategoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "category",
		Usage: "Manage categories",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List category names in display order",
				Action: app.withRuntime(func(_ context.Context, _ *cli.Command, rt *runtime) error {
					names := rt.store.Current().CategoryNames()

					output := app.output()
					if output.Structured() {
						return output.Success("", map[string][]string{"categories": names})
					}

					console.DefaultOutput.PlainList(names)

					return nil
				}),
			},
			{
				Name:      "add",
				Usage:     "Add an empty category (kept until the command exits unless an app joins it)",
				ArgsUsage: "NAME",
				Action: app.withRuntime(func(_ context.Context, cmd *cli.Command, rt *runtime) error {
					name := cmd.Args().First()

					return app.notify(rt.session.AddCategory(name), domain.MutationResult{Action: "category-add", Category: name})
				}),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a category, moving its apps to Uncategorized",
				ArgsUsage: "NAME",
				Action: app.withRuntime(func(_ context.Context, cmd *cli.Command, rt *runtime) error {
					name := cmd.Args().First()
					if name == "" {
						return fmt.Errorf("%w: category name", ErrMissingArgument)
					}

					if !rt.store.Current().HasCategory(name) {
						return domain.NewCategoryNotFound(name)
					}

					return app.notify(rt.session.DeleteCategory(name), domain.MutationResult{Action: "category-delete", Category: name})
				}),
			},
		},
	}
}

func (app *CLI) createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the effective configuration",
		Action: app.action(func(_ context.Context, _ *cli.Command) error {
			output := app.output()
			if output.Structured() {
				return output.Success("", app.cfg)
			}

			data, err := app.cfg.Encode()
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			_, err = app.stdout.Write(data)

			return err
		}),
	}
}

// notify prints a session notification. Error notifications become exit errors.
func (app *CLI) notify(note application.Notification, result any) error {
	if note.IsError {
		return domain.NewExitError(exitCodeForNotification(note), note.Message, nil)
	}

	output := app.output()
	if output.Structured() && result != nil {
		if mutation, ok := result.(domain.MutationResult); ok {
			mutation.Message = note.Message
			result = mutation
		}

		return output.Success("", result)
	}

	return output.Success(note.Message, nil)
}

// exitCodeForNotification classifies an error notification by its wording.
func exitCodeForNotification(note application.Notification) int {
	switch {
	case strings.Contains(note.Message, "not found"):
		return ExitNotFoundError
	case strings.HasPrefix(note.Message, "Please"), strings.HasPrefix(note.Message, "Category"),
		strings.HasPrefix(note.Message, "cannot"):
		return ExitUsageError
	case strings.HasPrefix(note.Message, "Could not save"):
		return ExitConfigError
	}

	return ExitGeneralError
}

func categoryOf(rt *runtime, name string) string {
	if entry, ok := rt.store.Lookup(name); ok {
		return entry.Category
	}

	return ""
}

func appEntryFlags(withName bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "installer download link"},
		&cli.StringFlag{Name: "icon", Aliases: []string{"i"}, Usage: "icon file name inside the icons directory"},
		&cli.StringFlag{Name: "icon-file", Usage: "copy this image into the icons directory and use it as the icon"},
		&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "category (default Other)"},
	}

	if withName {
		flags = append([]cli.Flag{&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "app name"}}, flags...)
	}

	return flags
}

func anyEntryFlag(cmd *cli.Command) bool {
	for _, name := range []string{"name", "url", "icon", "icon-file", "category"} {
		if cmd.IsSet(name) {
			return true
		}
	}

	return false
}

func entryFromFlags(cmd *cli.Command) domain.AppEntry {
	entry := domain.AppEntry{
		URL:      cmd.String("url"),
		Icon:     cmd.String("icon"),
		Category: cmd.String("category"),
	}

	if cmd.IsSet("name") {
		entry.Name = cmd.String("name")
	}

	return entry
}

// mergeEntry overlays the non-empty fields of changes on existing.
func mergeEntry(existing, changes domain.AppEntry) domain.AppEntry {
	merged := existing

	if changes.URL != "" {
		merged.URL = changes.URL
	}

	if changes.Icon != "" {
		merged.Icon = changes.Icon
	}

	if changes.Category != "" {
		merged.Category = changes.Category
	}

	return merged
}

// importIcon copies --icon-file into the icons directory and points the entry at it.
func (app *CLI) importIcon(cmd *cli.Command, rt *runtime, entry *domain.AppEntry) error {
	src := cmd.String("icon-file")
	if src == "" {
		return nil
	}

	name, note := rt.session.ImportIcon(src)
	if note.IsError {
		return domain.NewExitError(ExitSystemError, note.Message, nil)
	}

	entry.Icon = name

	return nil
}
