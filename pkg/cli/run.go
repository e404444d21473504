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
	"log/slog"

	"github.com/urfave/cli/v3"
)

func (a *app) runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Replace the local print queues with the assigned set (default)",
		Description: `Gathers the computer name and console user, asks the directory service
for the assigned queues, deletes every installed queue and installs the
assigned ones with a matching driver.

Nothing is changed when the service fails or assigns no queues. Failures of
single queues are logged and do not stop the run.

# Examples

Provision queues for the current login:
  queuemap run

Show what would change without touching the spooler:
  queuemap run --dry-run --format table

Fail the run (exit 3) when any queue could not be installed:
  queuemap run --strict`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "List installed queues and report planned changes without making them",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Exit with status 3 when any queue operation failed",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			dryRun := cmd.Bool("dry-run")
			p, err := a.newProvisioner(cfg, dryRun)
			if err != nil {
				return err
			}

			report, runErr := p.Run(ctx)

			if dryRun || cmd.IsSet("output") || cmd.IsSet("format") {
				if err := a.writeOutput(ctx, cmd, report); err != nil {
					slog.Error("failed to write report", "error", err)
				}
			}

			if runErr != nil {
				return runErr
			}
			if report.Result.Failed() {
				slog.Warn("run completed with failed queue operations", "failures", len(report.Result.Failures))
				if cmd.Bool("strict") {
					return &partialError{failures: len(report.Result.Failures)}
				}
			}
			return nil
		},
	}
}
