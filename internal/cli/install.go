// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	cliAdapter "github.com/boreapps/bore/internal/adapters/cli"
	"github.com/boreapps/bore/internal/application"
	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
)

// defaultHistoryLimit is how many downloads `history` shows.
const defaultHistoryLimit = 20

func (app *CLI) createInstallCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Download the installers of the named apps and run them",
		ArgsUsage: "NAME...",
		Description: `Apps are processed in catalog order, whatever order they are named in.

Modes:
  auto    Download every installer and start each one elevated.
  skip    Only download the installers, then open the download folder.
  manual  Install one app at a time, asking before moving to the next.

Without names on a terminal a form asks which apps to install.

Examples:
  bore install Zoom Discord                # Auto install two apps
  bore install --mode skip --category Chat # Download every Chat installer
  bore install --mode manual --all         # Step through the whole catalog`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "auto, skip or manual (default from config)"},
			&cli.StringSliceFlag{Name: "category", Aliases: []string{"c"}, Usage: "select every app of this category"},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "select every app in the catalog"},
			&cli.BoolFlag{Name: "wait", Aliases: []string{"w"}, Usage: "wait for launched installers to exit"},
		},
		Action: app.withRuntime(app.runInstall),
	}
}

func (app *CLI) runInstall(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	session := rt.session

	if cmd.IsSet("mode") {
		mode, err := domain.ParseInstallMode(cmd.String("mode"))
		if err != nil {
			return err
		}

		session.SetMode(mode)
	}

	if err := app.selectApps(cmd, rt); err != nil {
		return err
	}

	output := app.output()
	session.Installer().SetObserver(func(event domain.InstallEvent) {
		reportProgress(output, event)
	})

	started := time.Now()

	report, note := session.Install(ctx)
	if report == nil {
		return domain.NewExitError(exitCodeForNotification(note), note.Message, nil)
	}

	if session.Mode() == domain.ModeManual {
		report, note = app.stepThrough(ctx, session, report, note)
	}

	if cmd.Bool("wait") {
		waitForInstallers(output, report)
	}

	result := installResult(report, session.Installer().DownloadDir(), started)

	return app.finishInstall(ctx, output, report, result, note)
}

// selectApps ticks the apps named on the command line, or asks for them.
func (app *CLI) selectApps(cmd *cli.Command, rt *runtime) error {
	session := rt.session
	current := rt.store.Current()

	names := cmd.Args().Slice()

	if cmd.Bool("all") {
		names = append(names, current.Names()...)
	}

	for _, category := range cmd.StringSlice("category") {
		apps, ok := current.Category(category)
		if !ok {
			return domain.NewCategoryNotFound(category)
		}

		for _, entry := range apps.Apps {
			names = append(names, entry.Name)
		}
	}

	if len(names) == 0 && app.tty() {
		choice := installChoice{Mode: session.Mode()}
		if err := runInstallForm(current, &choice); err != nil {
			return err
		}

		names = choice.Apps
		session.SetMode(choice.Mode)
	}

	for _, name := range names {
		if session.Selection().IsSelected(name) {
			continue
		}

		if _, note := session.Toggle(name); note.IsError {
			return domain.NewExitError(ExitNotFoundError, note.Message, domain.NewAppNotFound(name))
		}
	}

	return nil
}

// stepThrough asks before each remaining app of a manual run.
func (app *CLI) stepThrough(ctx context.Context, session *application.Session,
	report *domain.InstallReport, note application.Notification,
) (*domain.InstallReport, application.Notification) {
	reader := bufio.NewReader(app.stdin)

	for report.State == domain.StateAwaitingNext {
		if !note.Empty() {
			_ = app.output().Progress(note.Message)
		}

		proceed, err := console.PromptConsent(fmt.Sprintf("Install %s now?", report.Next), app.yes, reader, app.stderr)
		if err != nil || !proceed {
			session.CancelManual()

			remaining := len(session.SelectedInOrder()) - len(report.Outcomes)

			return report, application.Notification{
				Message: fmt.Sprintf("Manual install stopped before %s (%d apps not installed).", report.Next, remaining),
				IsError: true,
			}
		}

		next, nextNote := session.ManualNext(ctx)
		if next == nil {
			return report, nextNote
		}

		report, note = next, nextNote
	}

	return report, note
}

// reportProgress prints one install event.
func reportProgress(output *cliAdapter.OutputAdapter, event domain.InstallEvent) {
	position := fmt.Sprintf("(%d/%d)", event.Index+1, event.Total)

	switch event.Kind {
	case domain.EventDownloading:
		_ = output.Progress(fmt.Sprintf("→ Downloading %s %s", event.App, position))
	case domain.EventDownloaded:
		_ = output.Progress("  ✓ Downloaded " + event.App)
	case domain.EventLaunched:
		_ = output.Progress("  ✓ Started installer for " + event.App)
	case domain.EventFailed:
		_ = output.Progress(fmt.Sprintf("  ✗ %s: %v", event.App, event.Err))
	case domain.EventAwaitingNext, domain.EventFinished:
	}
}

// waitForInstallers blocks until every launched installer exits.
func waitForInstallers(output *cliAdapter.OutputAdapter, report *domain.InstallReport) {
	for _, outcome := range report.Outcomes {
		if outcome.Process == nil {
			continue
		}

		_ = output.Progress("Waiting for " + outcome.Name + " installer...")

		if err := outcome.Process.Wait(); err != nil {
			console.DefaultOutput.Warningf("%s installer exited with an error: %v", outcome.Name, err)
		}
	}
}

func installResult(report *domain.InstallReport, dir string, started time.Time) *domain.InstallResult {
	result := &domain.InstallResult{
		Mode:       report.Mode,
		Downloaded: []string{},
		Directory:  dir,
		Duration:   time.Since(started),
		Timestamp:  started,
	}

	for _, outcome := range report.Outcomes {
		switch {
		case outcome.Failed():
			result.Failed = append(result.Failed, outcome.Name)
		case outcome.Launched:
			result.Downloaded = append(result.Downloaded, outcome.Name)
			result.Launched = append(result.Launched, outcome.Name)
		default:
			result.Downloaded = append(result.Downloaded, outcome.Name)
		}
	}

	return result
}

// finishInstall prints the outcome and picks the exit code.
func (app *CLI) finishInstall(ctx context.Context, output *cliAdapter.OutputAdapter,
	report *domain.InstallReport, result *domain.InstallResult, note application.Notification,
) error {
	if output.Structured() {
		if err := output.Success("", result); err != nil {
			return domain.NewExitError(ExitGeneralError, "failed to output results", err)
		}
	} else if !note.IsError {
		_ = output.Success(note.Message, nil)
	}

	if err := ctx.Err(); err != nil {
		return domain.NewExitError(exitCodeFor(err), "Install interrupted: "+note.Message, err)
	}

	if !note.IsError {
		return nil
	}

	if len(result.Failed) > 0 && len(result.Failed) == len(report.Outcomes) {
		message := note.Message
		if !app.verbose {
			message += "\nRun with --verbose for detailed errors"
		}

		return domain.NewExitError(ExitAppError, message, nil)
	}

	return domain.NewExitError(ExitWarnings, note.Message, nil)
}

func (app *CLI) createRevertCommand() *cli.Command {
	return &cli.Command{
		Name:  "revert",
		Usage: "Restore the app list as bore last found it before its own edits",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "diff", Aliases: []string{"d"}, Usage: "only show what reverting would change"},
		},
		Action: app.withRuntime(func(_ context.Context, cmd *cli.Command, rt *runtime) error {
			if cmd.Bool("diff") {
				return app.showRevertDiff(rt)
			}

			return app.notify(rt.session.Revert(), domain.MutationResult{Action: "revert"})
		}),
	}
}

func (app *CLI) showRevertDiff(rt *runtime) error {
	summary, err := rt.editor.PreviewRevert()
	if err != nil {
		return err
	}

	output := app.output()
	if output.Structured() {
		return output.Success("", map[string]any{
			"identical": summary.Identical(),
			"added":     summary.Added,
			"removed":   summary.Removed,
		})
	}

	if summary.Identical() {
		return output.Info("The app list matches the default.")
	}

	_, err = fmt.Fprint(app.stdout, summary.String())

	return err
}

func (app *CLI) createHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent downloads",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: defaultHistoryLimit, Usage: "number of entries (0 = all)"},
		},
		Action: app.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
			if rt.history == nil {
				return app.output().Info("Download history is disabled.")
			}

			entries, err := rt.history.Recent(ctx, int(cmd.Int("limit")))
			if err != nil {
				return err
			}

			output := app.output()
			if output.Structured() {
				return output.Success("", entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					humanize.Time(entry.StartedAt),
					entry.App,
					string(entry.Mode),
					entry.Status,
					humanize.Bytes(uint64(max(entry.Bytes, 0))),
					entry.Error,
				})
			}

			return output.Table([]string{"WHEN", "APP", "MODE", "STATUS", "SIZE", "ERROR"}, rows)
		}),
	}
}
