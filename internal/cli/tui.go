// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/boreapps/bore/internal/config"
	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
	"github.com/boreapps/bore/internal/icons"
	"github.com/boreapps/bore/internal/tui"
)

func (app *CLI) createTUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive catalog (default on a terminal)",
		Action: app.runTUI,
	}
}

// runTUI opens the interactive catalog. Diagnostics go to the log file while
// the alternate screen is active.
func (app *CLI) runTUI(ctx context.Context, _ *cli.Command) error {
	if !app.tty() {
		return domain.NewExitError(ExitUsageError, "The interactive catalog needs a terminal. Use 'bore list' or 'bore install' instead.", nil)
	}

	return app.withSessionRuntime(func(ctx context.Context, _ *cli.Command, rt *runtime) error {
		restore, err := redirectLog(config.LogPath(), app.stderr)
		if err != nil {
			console.DefaultOutput.Warningf("Logging to stderr: %v", err)
		} else {
			defer restore()
		}

		err = tui.Run(ctx, tui.Options{
			Session:       rt.session,
			Icons:         icons.NewCache(app.cfg.IconsDir),
			PreviewRevert: rt.editor.PreviewRevert,
			Version:       app.version,
		})
		if err != nil {
			return domain.NewExitError(ExitGeneralError, fmt.Sprintf("Failed to launch interactive interface: %v", err), err)
		}

		return nil
	})(ctx, nil)
}

// redirectLog sends console diagnostics to path until restore is called.
func redirectLog(path string, fallback io.Writer) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// #nosec G304 - Log path is derived from the XDG state directory
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	console.DefaultOutput.SetLogWriter(file)

	return func() {
		console.DefaultOutput.SetLogWriter(fallback)
		_ = file.Close()
	}, nil
}
