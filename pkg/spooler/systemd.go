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

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/oalprint/queuemap/pkg/defaults"
	"github.com/oalprint/queuemap/pkg/errors"
)

// unitActiveState reads the ActiveState property of a systemd unit.
var unitActiveState = func(ctx context.Context, unit string) (string, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	props, err := conn.GetUnitPropertiesContext(ctx, unit)
	if err != nil {
		return "", fmt.Errorf("failed to get unit properties: %w", err)
	}
	state, ok := props["ActiveState"].(string)
	if !ok {
		return "", fmt.Errorf("unit %s has no ActiveState", unit)
	}
	return state, nil
}

// CheckUnitActive fails with SERVICE_UNAVAILABLE unless the systemd unit
// running the spooler is active.
func CheckUnitActive(ctx context.Context, unit string) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.SpoolerUnitCheckTimeout)
	defer cancel()

	state, err := unitActiveState(ctx, unit)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable,
			"failed to read print spooler state", err,
			map[string]any{"unit": unit})
	}
	if state != "active" {
		return errors.NewWithContext(errors.ErrCodeUnavailable,
			fmt.Sprintf("print spooler unit %s is %s", unit, state),
			map[string]any{"unit": unit, "state": state})
	}
	slog.Debug("print spooler is active", "unit", unit)
	return nil
}
