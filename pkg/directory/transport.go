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

package directory

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/oalprint/queuemap/pkg/defaults"
)

const (
	// DefaultUserAgent identifies queuemap to the directory service.
	DefaultUserAgent = "queuemap/1.0"

	defaultMaxIdleConns        = 4
	defaultMaxIdleConnsPerHost = 2
	defaultIdleConnTimeout     = 30 * time.Second
)

// newTransport returns the transport used for the service call. One run
// issues a single request, so the pool is kept small.
func newTransport(insecureSkipVerify bool) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,

		// Connection pooling
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,

		// Timeouts
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       defaultIdleConnTimeout,

		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: insecureSkipVerify, //nolint:gosec // opt-in for lab servers with self-signed certificates
		},
	}
}
