// Package logging provides structured logging utilities for queuemap.
//
// # Overview
//
// This package wraps the standard library slog package with the defaults
// used by every queuemap command: module/version context on every record,
// source locations for debug records, and an optional append-only log file
// next to the console echo.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: full SOAP request/response bodies and every spooler command
//   - INFO: run progress (default)
//   - WARN/WARNING: skipped entries and degraded checks
//   - ERROR: failed queue operations and fatal run errors
//
// # Usage
//
//	closer, err := logging.SetDefaultStructuredLoggerWithFile(
//	    "queuemap", version, "info", "/Library/Logs/queuemap.log")
//	if err != nil {
//	    slog.Warn("logging to console only", "error", err)
//	}
//	defer closer.Close()
//
// # Output Format
//
// The console echo is text on an interactive terminal and JSON otherwise.
// The log file always receives JSON lines:
//
//	{"time":"2025-01-15T08:01:02Z","level":"INFO","msg":"installed queue",
//	 "module":"queuemap","version":"v1.0.0","queue":"lib-color"}
//
// # Environment Configuration
//
// LOG_LEVEL overrides the configured level:
//
//	LOG_LEVEL=debug queuemap run --dry-run
package logging
