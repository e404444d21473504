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

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

const (
	// EnvLogLevel overrides the configured level when set.
	EnvLogLevel = "LOG_LEVEL"

	logFileMode = 0o644
	logDirMode  = 0o755
)

// ParseLogLevel converts a level name into a slog.Level. Matching is
// case-insensitive; unknown names yield slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewStructuredLogger returns a logger writing to stderr with module and
// version attached to every record.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	lvl := ParseLogLevel(level)
	return slog.New(newConsoleHandler(os.Stderr, lvl)).With(
		"module", module,
		"version", version,
	)
}

// SetDefaultStructuredLogger installs a stderr logger as the slog default,
// taking the level from LOG_LEVEL.
func SetDefaultStructuredLogger(module, version string) {
	SetDefaultStructuredLoggerWithLevel(module, version, os.Getenv(EnvLogLevel))
}

// SetDefaultStructuredLoggerWithLevel installs a stderr logger with an
// explicit level as the slog default.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(module, version, level))
}

// SetDefaultStructuredLoggerWithFile installs a logger that echoes to
// stderr and appends JSON lines to path. The returned closer releases the
// file. If the file cannot be opened the logger falls back to stderr only
// and the open error is returned alongside a usable no-op closer.
func SetDefaultStructuredLoggerWithFile(module, version, level, path string) (io.Closer, error) {
	logger, closer, err := NewFileLogger(module, version, level, path, os.Stderr)
	slog.SetDefault(logger)
	return closer, err
}

// NewFileLogger builds the console plus file logger used by
// SetDefaultStructuredLoggerWithFile. console receives the echo; a nil
// console disables it.
func NewFileLogger(module, version, level, path string, console io.Writer) (*slog.Logger, io.Closer, error) {
	lvl := ParseLogLevel(level)

	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, newConsoleHandler(console, lvl))
	}

	var closer io.Closer = nopCloser{}
	var openErr error
	if path != "" {
		f, err := openAppend(path)
		if err != nil {
			openErr = fmt.Errorf("failed to open log file %q: %w", path, err)
		} else {
			closer = f
			handlers = append(handlers, slog.NewJSONHandler(f, handlerOptions(lvl)))
		}
	}

	logger := slog.New(newFanoutHandler(handlers...)).With(
		"module", module,
		"version", version,
	)
	return logger, closer, openErr
}

func openAppend(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, logDirMode); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
}

// newConsoleHandler uses text output on an interactive terminal and JSON
// when the stream is redirected.
func newConsoleHandler(w io.Writer, lvl slog.Level) slog.Handler {
	opts := handlerOptions(lvl)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func handlerOptions(lvl slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
