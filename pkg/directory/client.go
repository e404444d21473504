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
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/oalprint/queuemap/pkg/defaults"
	"github.com/oalprint/queuemap/pkg/errors"
	"github.com/oalprint/queuemap/pkg/queue"
)

const contentType = "text/xml; charset=utf-8"

// Option configures a Client.
type Option func(*Client)

// Client calls the print directory service.
type Client struct {
	Endpoint         string
	SOAPAction       string
	Namespace        string
	Key              string
	UserDomain       string
	UserAgent        string
	Timeout          time.Duration
	MaxResponseBytes int64
	HTTPClient       *http.Client

	insecureSkipVerify bool
}

// WithSOAPAction sets the SOAPAction header value.
func WithSOAPAction(action string) Option {
	return func(c *Client) {
		c.SOAPAction = action
	}
}

// WithNamespace sets the namespace of the request element.
func WithNamespace(ns string) Option {
	return func(c *Client) {
		c.Namespace = ns
	}
}

// WithKey sets the shared secret sent as the Key field.
func WithKey(key string) Option {
	return func(c *Client) {
		c.Key = key
	}
}

// WithUserDomain sets the UserDomain field.
func WithUserDomain(domain string) Option {
	return func(c *Client) {
		c.UserDomain = domain
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.UserAgent = userAgent
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.Timeout = timeout
	}
}

func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		c.MaxResponseBytes = n
	}
}

func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		c.insecureSkipVerify = skip
	}
}

// WithHTTPClient replaces the HTTP client; transport options are then ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = client
	}
}

// NewClient returns a Client posting to endpoint.
func NewClient(endpoint string, options ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfig,
			"invalid directory service endpoint", err,
			map[string]any{"endpoint": endpoint})
	}

	c := &Client{
		Endpoint:         endpoint,
		UserAgent:        DefaultUserAgent,
		Timeout:          defaults.ServiceRequestTimeout,
		MaxResponseBytes: defaults.ServiceMaxResponseBytes,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Transport: newTransport(c.insecureSkipVerify)}
	}
	if c.Namespace == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "directory service namespace is empty")
	}
	return c, nil
}

// FetchQueues asks the service which queues computerName and userName
// should have. Any error means the caller must not touch local queues.
func (c *Client) FetchQueues(ctx context.Context, computerName, userName string) ([]queue.Descriptor, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	r := Request{
		Key:          c.Key,
		ComputerName: computerName,
		UserName:     userName,
		UserDomain:   c.UserDomain,
	}
	body, err := r.Envelope(c.Namespace)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to build request", err)
	}

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		logged, _ := r.Redacted().Envelope(c.Namespace)
		slog.Debug("directory request",
			"endpoint", c.Endpoint,
			"soapAction", c.SOAPAction,
			"body", string(logged))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create request", err)
	}
	req.Host = req.URL.Host
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("SOAPAction", soapAction(c.SOAPAction))
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		se := errors.NewServiceError(0, "")
		se.Message = "directory service request failed"
		se.Cause = err
		return nil, se
	}
	defer resp.Body.Close()

	data, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	slog.Debug("directory response",
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start).String(),
		"body", string(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fault := ""
		if resp.StatusCode == http.StatusInternalServerError {
			fault = parseFault(data)
		}
		return nil, errors.NewServiceError(resp.StatusCode, fault)
	}

	descriptors, err := ParseQueues(data)
	if err != nil {
		return nil, err
	}

	slog.Info("fetched queue descriptors", "count", len(descriptors))
	return descriptors, nil
}

func (c *Client) readBody(body io.Reader) ([]byte, error) {
	limit := c.MaxResponseBytes
	if limit <= 0 {
		limit = defaults.ServiceMaxResponseBytes
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		se := errors.NewServiceError(0, "")
		se.Message = "failed to read directory service response"
		se.Cause = err
		return nil, se
	}
	if int64(len(data)) > limit {
		return nil, errors.NewWithContext(errors.ErrCodeMalformedResponse,
			fmt.Sprintf("response exceeds %d bytes", limit),
			map[string]any{"limit": limit})
	}
	return data, nil
}
