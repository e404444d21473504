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

// Package cli implements the queuemap command line.
//
// # Commands
//
// run (default) - replace local print queues with the assigned set:
//
//	queuemap run [--dry-run] [--strict] [--output FILE] [--format yaml|json|table]
//
// fetch - print the assigned queues without changing anything:
//
//	queuemap fetch [--computer-name NAME] [--user-name USER]
//
// facts - print the computer name, console user and OS version.
//
// match - show the driver and PPD a printer model resolves to:
//
//	queuemap match [--os-version X.Y] MODEL
//
// catalog - print the effective driver catalog in match order.
//
// # Global Flags
//
//	--config, -c   Configuration file (env QUEUEMAP_CONFIG)
//	--log-level    debug, info, warn, error (env LOG_LEVEL)
//	--log-file     Append JSON log records to this file
//	--no-log-file  Log to stderr only
//
// # Exit Codes
//
//	0      Success, including runs where single queues failed
//	1      The run could not proceed (facts, service, config, spooler)
//	3      Queue operations failed and --strict was given
//	128+n  Terminated by signal n
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/oalprint/queuemap/pkg/cli.version=1.0.0'"
package cli
