// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/boreapps/bore/internal/adapters/network"
	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
)

var errNoElevation = errors.New("no elevation helper found (need pkexec or sudo)")

// Launcher starts downloaded installers with administrator privileges.
type Launcher struct {
	verbose  bool
	goos     string
	lookPath func(string) (string, error)
}

// NewLauncher creates a launcher for the running OS.
func NewLauncher(verbose bool) *Launcher {
	return &Launcher{
		verbose:  verbose,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
	}
}

// NewLauncherFor creates a launcher that builds commands for goos.
func NewLauncherFor(goos string, lookPath func(string) (string, error)) *Launcher {
	return &Launcher{goos: goos, lookPath: lookPath}
}

// ElevationCommand returns the program and arguments that run path elevated.
// Windows goes through PowerShell so the elevated process can be waited on.
func (l *Launcher) ElevationCommand(path string, args ...string) (string, []string, error) {
	if l.goos == "windows" {
		script := "Start-Process -FilePath " + psQuote(path)
		if len(args) > 0 {
			quoted := make([]string, 0, len(args))
			for _, arg := range args {
				quoted = append(quoted, psQuote(arg))
			}

			script += " -ArgumentList " + strings.Join(quoted, ",")
		}

		script += " -Verb RunAs -Wait"

		return "powershell.exe", []string{"-NoProfile", "-NonInteractive", "-Command", script}, nil
	}

	for _, helper := range []string{"pkexec", "sudo"} {
		if resolved, err := l.lookPath(helper); err == nil {
			return resolved, append([]string{path}, args...), nil
		}
	}

	return "", nil, errNoElevation
}

// psQuote wraps s in PowerShell single quotes.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// RunElevated starts the installer and returns without waiting for it.
// The context only guards the start; a running installer is never killed.
func (l *Launcher) RunElevated(ctx context.Context, path string, args ...string) (domain.Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve installer path: %w", err)
	}

	name, cmdArgs, err := l.ElevationCommand(abs, args...)
	if err != nil {
		return nil, err
	}

	if l.verbose {
		console.DefaultOutput.Progressf("Executing: %s %s", name, strings.Join(cmdArgs, " "))
	}

	// #nosec G204 - The installer path was just downloaded by bore
	cmd := exec.Command(name, cmdArgs...)
	cmd.Dir = filepath.Dir(abs)

	// Propagate proxy environment variables
	cmd.Env = append(os.Environ(), network.GetProxyEnv()...)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", filepath.Base(name), err)
	}

	return reap(cmd), nil
}

// commandProcess is a started installer. It is reaped in the background
// whether or not anyone waits for it.
type commandProcess struct {
	done chan struct{}
	err  error
}

func reap(cmd *exec.Cmd) *commandProcess {
	process := &commandProcess{done: make(chan struct{})}

	go func() {
		if err := cmd.Wait(); err != nil {
			process.err = fmt.Errorf("installer exited: %w", err)
		}

		close(process.done)
	}()

	return process
}

// Done is closed once the installer has exited.
func (p *commandProcess) Done() <-chan struct{} {
	return p.done
}

func (p *commandProcess) Wait() error {
	<-p.done

	return p.err
}

// MockLauncher records launches for testing.
type MockLauncher struct {
	mu       sync.Mutex
	launched []string

	// Errors fails the launch of the listed paths.
	Errors map[string]error
	// WaitErr is returned by every launched process.
	WaitErr error
}

// NewMockLauncher creates a new mock launcher.
func NewMockLauncher() *MockLauncher {
	return &MockLauncher{Errors: make(map[string]error)}
}

// RunElevated records path and returns a finished process.
func (m *MockLauncher) RunElevated(_ context.Context, path string, _ ...string) (domain.Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.Errors[path]; ok {
		return nil, err
	}

	m.launched = append(m.launched, path)

	return mockProcess{err: m.WaitErr}, nil
}

// Launched returns the launched paths in order.
func (m *MockLauncher) Launched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.launched...)
}

type mockProcess struct {
	err error
}

func (p mockProcess) Wait() error {
	return p.err
}
