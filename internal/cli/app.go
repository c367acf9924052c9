// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the bore command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/urfave/cli/v3"

	cliAdapter "github.com/boreapps/bore/internal/adapters/cli"
	"github.com/boreapps/bore/internal/config"
	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
)

// Exit codes follow standard Unix conventions for better scripting support.
// Range 0-125 are safe to use (126+ have special meaning in shells).
const (
	ExitSuccess        = 0 // Operation completed successfully
	ExitGeneralError   = 1 // Generic failure (catch-all)
	ExitUsageError     = 2 // Invalid command line usage
	ExitConfigError    = 3 // Configuration or catalog file error
	ExitNotFoundError  = 5 // App or category not in the catalog
	ExitNetworkError   = 11 // Download failed
	ExitSystemError    = 12 // File system failure
	ExitTimeoutError   = 13 // Operation timed out
	ExitInterruptError = 14 // User interrupted (Ctrl+C)
	ExitAppError       = 22 // Every selected app failed
	ExitWarnings       = 64 // Operation succeeded with warnings
)

// CLI is the bore command tree plus the state its global flags populate.
type CLI struct {
	app *cli.Command

	verbose     bool
	json        bool
	quiet       bool
	plain       bool
	yes         bool
	color       string
	timeout     time.Duration
	configPath  string
	catalogPath string
	downloadDir string

	cfg      config.Config
	version  string
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	adapters Adapters
	tty      func() bool
}

// Option configures a CLI.
type Option func(*CLI)

// WithIO replaces the standard streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(app *CLI) {
		app.stdin = stdin
		app.stdout = stdout
		app.stderr = stderr
	}
}

// WithAdapters replaces the OS-facing adapters. Nil fields keep the defaults.
func WithAdapters(adapters Adapters) Option {
	return func(app *CLI) {
		app.adapters = adapters
	}
}

// WithVersion sets the reported version.
func WithVersion(version string) Option {
	return func(app *CLI) {
		app.version = version
	}
}

// WithTerminal overrides terminal detection for stdin and stdout.
func WithTerminal(isTTY func() bool) Option {
	return func(app *CLI) {
		app.tty = isTTY
	}
}

// NewCLI creates the command tree.
func NewCLI(opts ...Option) *CLI {
	app := &CLI{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		cfg:    config.Default(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.version == "" {
		app.version = buildVersion()
	}

	if app.tty == nil {
		app.tty = func() bool {
			return console.DefaultOutput.IsTTY(os.Stdin.Fd()) && console.DefaultOutput.IsTTY(os.Stdout.Fd())
		}
	}

	app.app = &cli.Command{
		Name:    "bore",
		Usage:   "Pick apps from a catalog and download or install them in one go",
		Suggest: true,
		Description: `bore keeps a categorized list of applications with their installer links.
Tick the apps you want and bore downloads every installer, then runs them
elevated, leaves them in a folder for you, or walks through them one by one.

QUICK START:
  bore                              # Open the interactive catalog
  bore list                         # Show the catalog
  bore install --mode skip Zoom     # Download an installer and open the folder
  bore add --name Zoom --url https://zoom.us/ZoomInstaller.exe --icon zoom.png --category Chat`,
		Writer:          app.stdout,
		ErrWriter:       app.stderr,
		Reader:          app.stdin,
		HideHelpCommand: true,
		Flags:           app.globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return app.initConfig(ctx, cmd)
		},
		Action:   app.defaultAction,
		Commands: app.createAllCommands(),
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

func (app *CLI) globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "show progress messages to stderr",
			Aliases:     []string{"v"},
			Destination: &app.verbose,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "output structured JSON results",
			Aliases:     []string{"j"},
			Destination: &app.json,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Usage:       "suppress non-essential output",
			Aliases:     []string{"q"},
			Destination: &app.quiet,
		},
		&cli.BoolFlag{
			Name:        "plain",
			Usage:       "output plain text without formatting for scripts",
			Destination: &app.plain,
		},
		&cli.StringFlag{
			Name:        "color",
			Usage:       "color output mode: auto, always, never",
			Value:       "auto",
			Destination: &app.color,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "connect and response header timeout for downloads (0 = config value)",
			Destination: &app.timeout,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "config file (default $BORE_CONFIG or $XDG_CONFIG_HOME/bore/config.toml)",
			Destination: &app.configPath,
		},
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "app list document to use",
			Destination: &app.catalogPath,
		},
		&cli.StringFlag{
			Name:        "download-dir",
			Usage:       "directory installers are downloaded to",
			Destination: &app.downloadDir,
		},
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "automatically answer yes to all prompts",
			Destination: &app.yes,
		},
	}
}

func (app *CLI) createAllCommands() []*cli.Command {
	return []*cli.Command{
		app.createTUICommand(),
		app.createListCommand(),
		app.createShowCommand(),
		app.createExportCommand(),
		app.createAddCommand(),
		app.createEditCommand(),
		app.createRemoveCommand(),
		app.createCategoryCommand(),
		app.createInstallCommand(),
		app.createRevertCommand(),
		app.createHistoryCommand(),
		app.createConfigCommand(),
		app.createVersionCommand(),
	}
}

// initConfig validates global flags and loads the config file.
func (app *CLI) initConfig(ctx context.Context, _ *cli.Command) (context.Context, error) {
	if app.json && app.plain {
		return ctx, domain.NewExitError(ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	switch app.color {
	case "auto":
	case "never":
		_ = os.Setenv("NO_COLOR", "1")
	case "always":
		_ = os.Unsetenv("NO_COLOR")
	default:
		return ctx, domain.NewExitError(ExitUsageError, "invalid --color value: must be auto, always, or never", nil)
	}

	console.DefaultOutput.SetMode(app.verbose, app.json, app.plain)
	console.DefaultOutput.SetLogWriter(app.stderr)
	console.DefaultOutput.SetOutputWriter(app.stdout)

	path := app.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return ctx, domain.NewExitError(ExitConfigError, err.Error(), err)
	}

	if app.catalogPath != "" {
		cfg.CatalogPath = app.catalogPath
	}

	if app.downloadDir != "" {
		cfg.DownloadDir = app.downloadDir
	}

	if app.timeout > 0 {
		cfg.HTTPTimeoutSeconds = max(int(app.timeout/time.Second), 1)
	}

	app.cfg = cfg

	console.DefaultOutput.Progressf("Using config %s (catalog %s)", path, cfg.CatalogPath)

	return ctx, nil
}

// defaultAction opens the TUI on a terminal and shows help otherwise.
func (app *CLI) defaultAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return domain.NewExitError(ExitUsageError, "'"+cmd.Args().First()+"' is not a command. Run 'bore --help' to see available commands.", nil)
	}

	if !app.tty() {
		app.showConciseHelp()

		return nil
	}

	return app.runTUI(ctx, cmd)
}

// showConciseHelp lists the commands when there is no terminal for the TUI.
func (app *CLI) showConciseHelp() {
	_, _ = fmt.Fprintf(app.stdout, "bore %s - batch installer catalog\n\n", app.version)
	_, _ = fmt.Fprintln(app.stdout, "Usage: bore [global options] <command> [arguments]")
	_, _ = fmt.Fprintln(app.stdout)
	_, _ = fmt.Fprintln(app.stdout, "Commands:")

	for _, command := range app.app.Commands {
		_, _ = fmt.Fprintf(app.stdout, "  %-10s %s\n", command.Name, command.Usage)
	}

	_, _ = fmt.Fprintln(app.stdout)
	_, _ = fmt.Fprintln(app.stdout, "Run 'bore --help' for global options.")
}

// output returns the result writer for the global flags.
func (app *CLI) output() *cliAdapter.OutputAdapter {
	return cliAdapter.OutputFromFlags(app.stdout, app.json, app.quiet)
}

func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			return app.output().Success("bore "+app.version, map[string]string{"version": app.version})
		},
	}
}

// buildVersion reports the module version stamped by the Go toolchain.
func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}
