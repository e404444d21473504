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
	"github.com/oalprint/queuemap/pkg/hostfacts"
)

type factsDoc struct {
	header.Header `json:",inline" yaml:",inline"`

	Facts *hostfacts.Facts `json:"facts" yaml:"facts"`
}

func (a *app) factsCmd() *cli.Command {
	return &cli.Command{
		Name:  "facts",
		Usage: "Print the computer name, console user and OS version",
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			facts, err := a.newCollector().Gather(ctx)
			if err != nil {
				return err
			}
			return a.writeOutput(ctx, cmd, factsDoc{
				Header: *header.New(header.KindHostFacts, version),
				Facts:  facts,
			})
		},
	}
}
