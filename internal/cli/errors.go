// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	cliAdapter "github.com/boreapps/bore/internal/adapters/cli"
	"github.com/boreapps/bore/internal/domain"
)

// exitCodeFor picks the exit code for an error that is not already an ExitError.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrStorage):
		return ExitConfigError
	case errors.Is(err, domain.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnknownMode),
		errors.Is(err, domain.ErrNothingSelected),
		errors.Is(err, cliAdapter.ErrUnsupportedFormat),
		errors.Is(err, ErrMissingArgument):
		return ExitUsageError
	case errors.Is(err, domain.ErrNetwork):
		return ExitNetworkError
	case errors.Is(err, domain.ErrIO):
		return ExitSystemError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.Is(err, context.Canceled), errors.Is(err, ErrFormAborted):
		return ExitInterruptError
	}

	return ExitGeneralError
}

// toExitError converts err into a domain.ExitError with a user-facing message.
func (app *CLI) toExitError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return domain.NewExitError(ExitUsageError, validation.Error(), nil)
	}

	return domain.NewExitError(exitCodeFor(err), domain.FormatErrorMessage(err, "", app.verbose), err)
}

// action wraps a command action so every error leaves with an exit code.
func (app *CLI) action(run func(context.Context, *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		return app.toExitError(run(ctx, cmd))
	}
}

// withRuntime opens the runtime for the duration of run.
func (app *CLI) withRuntime(run func(context.Context, *cli.Command, *runtime) error) cli.ActionFunc {
	return app.runtimeAction(true, run)
}

// withSessionRuntime is withRuntime for a long-lived session, whose revert
// target is the document it loaded.
func (app *CLI) withSessionRuntime(run func(context.Context, *cli.Command, *runtime) error) cli.ActionFunc {
	return app.runtimeAction(false, run)
}

func (app *CLI) runtimeAction(revertToBaseline bool, run func(context.Context, *cli.Command, *runtime) error) cli.ActionFunc {
	return app.action(func(ctx context.Context, cmd *cli.Command) error {
		rt, err := app.open(revertToBaseline)
		if err != nil {
			return err
		}

		defer func() { _ = rt.Close() }()

		return run(ctx, cmd, rt)
	})
}
