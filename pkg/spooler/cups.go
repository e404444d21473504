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

package spooler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oalprint/queuemap/pkg/command"
	"github.com/oalprint/queuemap/pkg/defaults"
	"github.com/oalprint/queuemap/pkg/queue"
)

const noDestinations = "No destinations added"

// CUPS drives the CUPS command line tools.
type CUPS struct {
	Runner command.Runner
}

// NewCUPS returns a CUPS subsystem executing lpstat and lpadmin directly.
func NewCUPS() *CUPS {
	return &CUPS{Runner: command.ExecRunner{Timeout: defaults.SpoolerCommandTimeout}}
}

// List implements Subsystem using "lpstat -a".
func (c *CUPS) List(ctx context.Context) ([]string, error) {
	out, err := c.Runner.Run(ctx, "lpstat", "-a")
	if err != nil {
		if strings.Contains(command.Output(err), noDestinations) || strings.Contains(string(out), noDestinations) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list queues: %w", err)
	}
	return parseLpstat(string(out)), nil
}

// Delete implements Subsystem using "lpadmin -x".
func (c *CUPS) Delete(ctx context.Context, name string) error {
	if _, err := c.Runner.Run(ctx, "lpadmin", "-x", name); err != nil {
		return fmt.Errorf("failed to delete queue: %w", err)
	}
	slog.Debug("deleted queue", "queue", name)
	return nil
}

// Create implements Subsystem using "lpadmin -p NAME -E -v URI -P PPD".
func (c *CUPS) Create(ctx context.Context, in queue.Install) error {
	if _, err := c.Runner.Run(ctx, "lpadmin", "-p", in.Name, "-E", "-v", in.DeviceURI, "-P", in.PPDPath); err != nil {
		return fmt.Errorf("failed to create queue: %w", err)
	}
	slog.Debug("created queue", "queue", in.Name, "uri", in.DeviceURI, "ppd", in.PPDPath)
	return nil
}

// parseLpstat returns the first field of every non-empty line.
func parseLpstat(out string) []string {
	names := make([]string, 0)
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, noDestinations) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}
