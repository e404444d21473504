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
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/oalprint/queuemap/pkg/command"
	"github.com/oalprint/queuemap/pkg/defaults"
	"github.com/oalprint/queuemap/pkg/errors"
	"github.com/oalprint/queuemap/pkg/version"
)

const (
	defaultConsolePath = "/dev/console"
	sysctlProductVer   = "kern.osproductversion"
)

// Console owners that mean nobody is logged in at the console.
var noConsoleUsers = map[string]bool{
	"root":         true,
	"_mbsetupuser": true,
	"loginwindow":  true,
}

// Facts is the immutable identity of this machine for one run.
type Facts struct {
	ComputerName string          `json:"computerName" yaml:"computerName"`
	UserName     string          `json:"userName" yaml:"userName"`
	OSVersion    version.Version `json:"osVersion" yaml:"osVersion"`
	OS           string          `json:"os" yaml:"os"`
}

// Collector gathers Facts. The zero value is not usable; use NewCollector.
// Every field is replaceable to run the collector against fixtures.
type Collector struct {
	GOOS         string
	Runner       command.Runner
	ConsolePath  string
	ReleasePaths []string

	Hostname     func() (string, error)
	ConsoleOwner func(path string) (string, error)
	Sysctl       func(name string) (string, error)
	Getenv       func(key string) string
}

// NewCollector returns a Collector bound to the running host.
func NewCollector() *Collector {
	return &Collector{
		GOOS:         runtime.GOOS,
		Runner:       command.ExecRunner{Timeout: defaults.FactCommandTimeout},
		ConsolePath:  defaultConsolePath,
		ReleasePaths: []string{filePathReleasePrimary, filePathReleaseFallback},
		Hostname:     os.Hostname,
		ConsoleOwner: consoleOwner,
		Sysctl:       sysctlString,
		Getenv:       os.Getenv,
	}
}

// Gather reads the computer name, console user and OS version. It fails
// with FACT_UNAVAILABLE when the computer name or console user cannot be
// determined; an unreadable OS version is logged and left zero.
func (c *Collector) Gather(ctx context.Context) (*Facts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := c.computerName(ctx)
	if err != nil {
		return nil, err
	}

	user, err := c.userName()
	if err != nil {
		return nil, err
	}

	osv, err := c.OSVersion(ctx)
	if err != nil {
		slog.Warn("os version unavailable, assuming current layout", "error", err)
		osv = version.Version{}
	}

	facts := &Facts{
		ComputerName: name,
		UserName:     user,
		OSVersion:    osv,
		OS:           c.GOOS,
	}

	slog.Info("gathered host facts",
		"computerName", facts.ComputerName,
		"userName", facts.UserName,
		"osVersion", facts.OSVersion.String(),
		"os", facts.OS)

	return facts, nil
}

func (c *Collector) computerName(ctx context.Context) (string, error) {
	if c.GOOS == "darwin" {
		out, err := c.Runner.Run(ctx, "scutil", "--get", "ComputerName")
		if name := strings.TrimSpace(string(out)); err == nil && name != "" {
			return name, nil
		}
		slog.Warn("scutil did not report a computer name, using hostname", "error", err)
	}

	name, err := c.Hostname()
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeFactUnavailable,
			"failed to determine computer name", err,
			map[string]any{"os": c.GOOS})
	}
	name = strings.TrimSpace(name)
	if c.GOOS == "darwin" {
		name = strings.TrimSuffix(name, ".local")
	}
	if name == "" {
		return "", errors.New(errors.ErrCodeFactUnavailable, "computer name is empty")
	}
	return name, nil
}

func (c *Collector) userName() (string, error) {
	owner, err := c.ConsoleOwner(c.ConsolePath)
	if err != nil {
		slog.Debug("console owner lookup failed", "path", c.ConsolePath, "error", err)
	}
	user := NormalizeUserName(owner)

	if noConsoleUsers[user] && c.GOOS != "darwin" {
		for _, key := range []string{"SUDO_USER", "USER"} {
			if v := NormalizeUserName(c.Getenv(key)); v != "" && !noConsoleUsers[v] {
				user = v
				break
			}
		}
	}

	if user == "" || noConsoleUsers[user] {
		ctx := map[string]any{"console": c.ConsolePath}
		if owner != "" {
			ctx["owner"] = owner
		}
		if err != nil {
			return "", errors.WrapWithContext(errors.ErrCodeFactUnavailable, "no console user", err, ctx)
		}
		return "", errors.NewWithContext(errors.ErrCodeFactUnavailable, "no console user", ctx)
	}
	return user, nil
}

// OSVersion reads the operating system release.
func (c *Collector) OSVersion(ctx context.Context) (version.Version, error) {
	switch c.GOOS {
	case "darwin":
		raw, err := c.Sysctl(sysctlProductVer)
		if err != nil || strings.TrimSpace(raw) == "" {
			out, runErr := c.Runner.Run(ctx, "sw_vers", "-productVersion")
			if runErr != nil {
				return version.Version{}, fmt.Errorf("failed to read product version: %w", runErr)
			}
			raw = string(out)
		}
		return version.ParseVersion(raw)
	case "linux":
		release, err := readRelease(c.ReleasePaths)
		if err != nil {
			return version.Version{}, err
		}
		return version.ParseVersion(release["VERSION_ID"])
	default:
		return version.Version{}, fmt.Errorf("unsupported operating system %q", c.GOOS)
	}
}

// NormalizeUserName trims whitespace and drops any "@realm" suffix.
func NormalizeUserName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return name
}
