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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/oalprint/queuemap/pkg/serializer"
)

// Flags are built per command tree; urfave flags keep parsed state.
func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format: %s", strings.Join(serializer.SupportedFormats(), ", ")),
		Value:   string(serializer.FormatYAML),
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (want one of %s)",
			cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// writeOutput serializes doc according to --format and --output.
func (a *app) writeOutput(ctx context.Context, cmd *cli.Command, doc any) error {
	s, err := a.newSerializer(cmd)
	if err != nil {
		return err
	}
	if c, ok := s.(serializer.Closer); ok {
		defer c.Close()
	}
	return s.Serialize(ctx, doc)
}

// newSerializer returns a serializer for --format writing to --output, or to
// the app's stdout when no output file is given.
func (a *app) newSerializer(cmd *cli.Command) (serializer.Serializer, error) {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}
	if path := cmd.String("output"); path != "" && path != "-" {
		return serializer.NewFileWriterOrStdout(format, path)
	}
	return serializer.NewWriter(format, a.stdout), nil
}
