// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	cliAdapter "github.com/boreapps/bore/internal/adapters/cli"
	"github.com/boreapps/bore/internal/domain"
)

func (app *CLI) createExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog as JSON or YAML",
		Description: `Writes the catalog grouped by category. Without --output the document goes
to stdout.

Examples:
  bore export --format yaml
  bore export --format json --output apps-backup.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "json or yaml"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to this file instead of stdout"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "only export this category"},
		},
		Action: app.withRuntime(app.runExport),
	}
}

func (app *CLI) runExport(_ context.Context, cmd *cli.Command, rt *runtime) error {
	format, err := cliAdapter.ParseOutputFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if format == cliAdapter.TextFormat {
		format = cliAdapter.JSONFormat
	}

	result, err := listResult(rt.store.Current(), cmd.String("category"))
	if err != nil {
		return err
	}

	target := cmd.String("output")
	if target == "" {
		return cliAdapter.NewOutputAdapterWithWriter(app.stdout, format, false).Document(result)
	}

	var buf bytes.Buffer
	if err := cliAdapter.NewOutputAdapterWithWriter(&buf, format, false).Document(result); err != nil {
		return err
	}

	if err := rt.files.WriteFileAtomic(target, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrIO, target, err)
	}

	return app.output().Success(fmt.Sprintf("Exported %d apps to %s", result.Total, target), map[string]any{"path": target, "total": result.Total, "format": format.String()})
}
