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

// Package defaults provides centralized configuration constants for queuemap.
//
// # Timeout Categories
//
//   - Host fact timeouts: for scutil, sw_vers and friends
//   - Directory service timeouts: for the single SOAP call
//   - Spooler timeouts: for lpstat and lpadmin invocations
//   - Network readiness: polling before the service call
//
// Values here are defaults; most can be overridden in the configuration file.
package defaults
