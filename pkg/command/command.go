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

// Package command runs external utilities for host fact collection and
// spooler administration. Commands are executed directly, never through a
// shell, so queue and user names are passed as single arguments.
package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Error describes a command that could not be started or exited non-zero.
type Error struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	return msg
}

// Unwrap returns the underlying exec error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Output returns the stderr text of a command error, or the error text for
// any other error.
func Output(err error) string {
	var ce *Error
	if stderrors.As(err, &ce) {
		return ce.Stderr
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Timeout bounds each command; zero relies on the caller's context.
	Timeout time.Duration
}

// Run executes name with args and returns stdout. A non-zero exit is
// reported as *Error carrying the trimmed stderr.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	line := Line(name, args...)
	slog.Debug("running command", "command", line)

	if err := cmd.Run(); err != nil {
		ce := &Error{
			Command:  line,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			ce.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			ce.Err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		return stdout.Bytes(), ce
	}
	return stdout.Bytes(), nil
}

// Line renders a command for logs, quoting arguments with spaces.
func Line(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
