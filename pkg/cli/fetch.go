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

	"github.com/urfave/cli/v3"

	"github.com/oalprint/queuemap/pkg/header"
	"github.com/oalprint/queuemap/pkg/queue"
)

// queueList is the document printed by fetch.
type queueList struct {
	header.Header `json:",inline" yaml:",inline"`

	ComputerName string             `json:"computerName" yaml:"computerName"`
	UserName     string             `json:"userName" yaml:"userName"`
	Queues       []queue.Descriptor `json:"queues" yaml:"queues"`
}

func (a *app) fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Print the queues the directory service assigns, without changing anything",
		Description: `Calls the directory service once and prints the assigned queues.
The computer name and user default to the gathered host facts.

# Examples

  queuemap fetch
  queuemap fetch --computer-name LIB-MAC-07 --user-name jdoe --format json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "computer-name",
				Usage: "Computer name to send instead of the local one",
			},
			&cli.StringFlag{
				Name:  "user-name",
				Usage: "User name to send instead of the console user",
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
			p, err := a.newProvisioner(cfg, true)
			if err != nil {
				return err
			}

			computer, user := cmd.String("computer-name"), cmd.String("user-name")
			if computer == "" || user == "" {
				facts, err := p.Facts.Gather(ctx)
				if err != nil {
					return err
				}
				if computer == "" {
					computer = facts.ComputerName
				}
				if user == "" {
					user = facts.UserName
				}
			}

			queues, err := p.Directory.FetchQueues(ctx, computer, user)
			if err != nil {
				return err
			}

			return a.writeOutput(ctx, cmd, queueList{
				Header:       *header.New(header.KindQueueList, version),
				ComputerName: computer,
				UserName:     user,
				Queues:       queues,
			})
		},
	}
}
