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

package hostfacts

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/oalprint/queuemap/pkg/errors"
)

// InterfaceLister returns the host network interfaces with their addresses.
type InterfaceLister func() ([]Interface, error)

// Interface is the subset of net.Interface state the network check needs.
type Interface struct {
	Name     string
	Up       bool
	Loopback bool
	Addrs    []net.IP
}

// SystemInterfaces lists interfaces through the net package.
func SystemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		item := Interface{
			Name:     iface.Name,
			Up:       iface.Flags&net.FlagUp != 0,
			Loopback: iface.Flags&net.FlagLoopback != 0,
		}
		addrs, err := iface.Addrs()
		if err != nil {
			slog.Debug("failed to read interface addresses", "interface", iface.Name, "error", err)
			continue
		}
		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok {
				item.Addrs = append(item.Addrs, ipNet.IP)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// NetworkUp reports whether any non-loopback interface is up with an IPv4
// address, and returns its name.
func NetworkUp(list InterfaceLister) (string, bool) {
	ifaces, err := list()
	if err != nil {
		slog.Debug("failed to list interfaces", "error", err)
		return "", false
	}
	for _, iface := range ifaces {
		if !iface.Up || iface.Loopback {
			continue
		}
		for _, ip := range iface.Addrs {
			if ip.To4() != nil && !ip.IsLoopback() {
				return iface.Name, true
			}
		}
	}
	return "", false
}

// WaitForNetwork polls until NetworkUp is true or timeout elapses.
// A timeout of zero checks once and never fails.
func WaitForNetwork(ctx context.Context, list InterfaceLister, timeout, interval time.Duration) error {
	if name, ok := NetworkUp(list); ok {
		slog.Debug("network is up", "interface", name)
		return nil
	}
	if timeout <= 0 {
		slog.Warn("no network interface is up, continuing")
		return nil
	}
	if interval <= 0 {
		interval = time.Second
	}

	slog.Info("waiting for network", "timeout", timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return errors.WrapWithContext(errors.ErrCodeUnavailable,
				"network did not come up", ctx.Err(),
				map[string]any{"timeout": timeout.String()})
		case <-ticker.C:
			if name, ok := NetworkUp(list); ok {
				slog.Info("network is up", "interface", name)
				return nil
			}
		}
	}
}
