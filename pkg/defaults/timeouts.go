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

package defaults

import "time"

// Host fact collection.
const (
	// FactCommandTimeout bounds each command used to read a host fact.
	FactCommandTimeout = 10 * time.Second
)

// Directory service client.
const (
	// ServiceRequestTimeout is the total timeout of the SOAP request.
	ServiceRequestTimeout = 30 * time.Second

	// ServiceMaxResponseBytes caps how much of the response body is read.
	ServiceMaxResponseBytes = 1 << 20
)

// HTTP transport timeouts for the directory service call.
const (
	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 20 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Spooler command timeouts.
const (
	// SpoolerCommandTimeout bounds a single lpstat or lpadmin invocation.
	SpoolerCommandTimeout = 1 * time.Minute

	// SpoolerUnitCheckTimeout bounds the systemd unit state query.
	SpoolerUnitCheckTimeout = 10 * time.Second
)

// Network readiness.
const (
	// NetworkWaitTimeout is how long to wait for a usable interface. Zero
	// performs a single check.
	NetworkWaitTimeout = 0 * time.Second

	// NetworkPollInterval is the interface polling period while waiting.
	NetworkPollInterval = 1 * time.Second
)

// RunTimeout bounds a complete provisioning run.
const RunTimeout = 10 * time.Minute
