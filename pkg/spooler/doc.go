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

// Package spooler manages queues in the local print spooler.
//
// CUPS runs lpstat and lpadmin without a shell, so queue names and URIs are
// passed as single arguments. DryRun wraps another Subsystem and records
// mutations instead of executing them. Memory keeps queues in a map.
//
// On Linux hosts the spooler runs as a systemd unit; CheckUnitActive asks
// systemd over D-Bus whether it is running before any queue is touched.
package spooler
