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
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/oalprint/queuemap/pkg/header"
	"github.com/oalprint/queuemap/pkg/matcher"
	"github.com/oalprint/queuemap/pkg/queue"
	osver "github.com/oalprint/queuemap/pkg/version"
)

type matchDoc struct {
	header.Header `json:",inline" yaml:",inline"`

	Model      string          `json:"model" yaml:"model"`
	OSVersion  osver.Version `json:"osVersion" yaml:"osVersion"`
	Driver     *queue.Driver   `json:"driver,omitempty" yaml:"driver,omitempty"`
	Candidates []queue.Driver  `json:"candidates" yaml:"candidates"`
	PPDPath    string          `json:"ppdPath" yaml:"ppdPath"`
}

func (a *app) matchCmd() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Show which driver and PPD a printer model name resolves to",
		ArgsUsage: "MODEL",
		Description: `Matches MODEL against the driver catalog the way run does and prints the
chosen entry, every entry that would match, and the resolved PPD path.

# Examples

  queuemap match "Xerox Phaser 7760GX"
  queuemap match --os-version 10.6.8 "HP Color LaserJet 5550"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "os-version",
				Usage: "OS version to resolve the PPD layout for (default: this host)",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			model := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if model == "" {
				return fmt.Errorf("missing MODEL argument")
			}

			cfg, err := a.loadLocalConfig()
			if err != nil {
				return err
			}

			osv, err := a.matchOSVersion(ctx, cmd.String("os-version"))
			if err != nil {
				return err
			}

			driver, _ := matcher.Match(model, cfg.Catalog)
			return a.writeOutput(ctx, cmd, matchDoc{
				Header:     *header.New(header.KindMatch, version),
				Model:      model,
				OSVersion:  osv,
				Driver:     driver,
				Candidates: matcher.MatchAll(model, cfg.Catalog),
				PPDPath:    cfg.Resolver().Resolve(driver, osv),
			})
		},
	}
}

func (a *app) matchOSVersion(ctx context.Context, flag string) (osver.Version, error) {
	if flag != "" {
		v, err := osver.ParseVersion(flag)
		if err != nil {
			return osver.Version{}, fmt.Errorf("invalid --os-version: %w", err)
		}
		return v, nil
	}
	v, err := a.newCollector().OSVersion(ctx)
	if err != nil {
		slog.Debug("os version unavailable, assuming current layout", "error", err)
		return osver.Version{}, nil
	}
	return v, nil
}
