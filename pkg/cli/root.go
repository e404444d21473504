// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/oalprint/queuemap/pkg/config"
	"github.com/oalprint/queuemap/pkg/defaults"
	"github.com/oalprint/queuemap/pkg/hostfacts"
	"github.com/oalprint/queuemap/pkg/logging"
	"github.com/oalprint/queuemap/pkg/provisioner"
)

const (
	name           = "queuemap"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// app holds state shared by the commands of one invocation.
type app struct {
	configPath string
	logCloser  io.Closer
	stdout     io.Writer
	stderr     io.Writer

	newProvisioner func(cfg *config.Config, dryRun bool) (*provisioner.Provisioner, error)
	newCollector   func() *hostfacts.Collector
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		newProvisioner: func(cfg *config.Config, dryRun bool) (*provisioner.Provisioner, error) {
			return provisioner.New(cfg, version, dryRun)
		},
		newCollector: hostfacts.NewCollector,
	}
}

// Execute runs the queuemap command line and exits the process with the
// resulting status. It is called by main.main.
func Execute() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Exit at once; queues already changed stay as they are.
	go func() {
		sig := <-sigCh
		code := ExitFatal
		if s, ok := sig.(syscall.Signal); ok {
			code = 128 + int(s)
		}
		slog.Warn("received signal, exiting", "signal", sig.String(), "exitCode", code)
		os.Exit(code)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaults.RunTimeout)
	code := Run(ctx, os.Args, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// Run executes args and returns the process exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return newApp(stdout, stderr).execute(ctx, args)
}

func (a *app) execute(ctx context.Context, args []string) int {
	defer a.close()

	err := a.rootCmd().Run(ctx, args)
	code := exitCode(err)
	if err != nil && code != ExitPartial {
		slog.Error("queuemap failed", "error", err, "exitCode", code)
		fmt.Fprintf(a.stderr, "%s: %v\n", name, err)
	}
	return code
}

func (a *app) rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Map the print queues assigned to this workstation and user",
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		Writer:                a.stdout,
		ErrWriter:             a.stderr,
		Description: `queuemap asks the print directory service which queues the current
workstation and console user should have, then replaces the local print
queues with exactly that set. It is meant to run once per login.

When the service fails or answers with an unusable document, local queues
are left untouched. An empty assignment also leaves them untouched.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file (default: queuemap.yaml in /Library/Preferences, /etc/queuemap or .)",
				Sources: cli.EnvVars("QUEUEMAP_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn, error (overrides logging.level)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Append JSON log records to this file (overrides logging.file)",
			},
			&cli.BoolFlag{
				Name:  "no-log-file",
				Usage: "Log to stderr only",
			},
		},
		Before:         a.before,
		DefaultCommand: "run",
		Commands: []*cli.Command{
			a.runCmd(),
			a.fetchCmd(),
			a.factsCmd(),
			a.matchCmd(),
			a.catalogCmd(),
		},
	}
}

// before configures logging from flags and the configuration file. The file
// is read leniently here; each command loads it again with the validation
// it needs.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	a.configPath = cmd.String("config")

	level := cmd.String("log-level")
	logFile := config.DefaultLogFile
	if cfg, err := config.LoadLocal(a.configPath); err == nil {
		if level == "" {
			level = cfg.Logging.Level
		}
		logFile = cfg.Logging.File
	}
	if f := cmd.String("log-file"); f != "" {
		logFile = f
	}
	if cmd.Bool("no-log-file") {
		logFile = ""
	}

	if logFile == "" {
		logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	} else {
		closer, err := logging.SetDefaultStructuredLoggerWithFile(name, version, level, logFile)
		a.logCloser = closer
		if err != nil {
			slog.Warn("log file unavailable, logging to stderr only", "path", logFile, "error", err)
		}
	}

	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)

	return ctx, nil
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.configPath)
}

func (a *app) loadLocalConfig() (*config.Config, error) {
	return config.LoadLocal(a.configPath)
}

// partialError reports that the run completed with failed queue operations.
type partialError struct {
	failures int
}

func (e *partialError) Error() string {
	return fmt.Sprintf("%d queue operation(s) failed", e.failures)
}

func isPartial(err error) bool {
	var pe *partialError
	return stderrors.As(err, &pe)
}
