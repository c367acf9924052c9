// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for bore.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/boreapps/bore/internal/cli"
	"github.com/boreapps/bore/internal/config"
	"github.com/boreapps/bore/internal/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	// One bore at a time: two instances would race on the app list file.
	lockPath := config.LockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create state directory: %v\n", err)

		return cli.ExitSystemError
	}

	lock := flock.New(lockPath)

	locked, err := lock.TryLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to acquire process lock: %v\n", err)

		return cli.ExitSystemError
	}

	if !locked {
		fmt.Fprintf(os.Stderr, "Another bore instance is already running\n")

		return cli.ExitGeneralError
	}

	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to release process lock: %v\n", unlockErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewCLI().Run(ctx, os.Args); err != nil {
		exitErr := &domain.ExitError{}
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "%s\n", exitErr.Message)
			}

			return exitErr.Code
		}

		fmt.Fprintf(os.Stderr, "Unexpected error: %v\n", err)

		return cli.ExitGeneralError
	}

	return cli.ExitSuccess
}
