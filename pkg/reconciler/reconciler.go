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

package reconciler

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/oalprint/queuemap/pkg/matcher"
	"github.com/oalprint/queuemap/pkg/metrics"
	"github.com/oalprint/queuemap/pkg/ppd"
	"github.com/oalprint/queuemap/pkg/queue"
	"github.com/oalprint/queuemap/pkg/spooler"
	"github.com/oalprint/queuemap/pkg/version"
)

// Option configures a Reconciler.
type Option func(*Reconciler)

// Reconciler replaces the local queue set with the descriptors it is given.
type Reconciler struct {
	Spooler      spooler.Subsystem
	Catalog      []queue.Driver
	Resolver     *ppd.Resolver
	OSVersion    version.Version
	DomainSuffix string
	Limiter      *rate.Limiter

	onPhase func(Phase)
}

// WithDomainSuffix sets the suffix appended to server names in device URIs.
func WithDomainSuffix(suffix string) Option {
	return func(r *Reconciler) {
		r.DomainSuffix = suffix
	}
}

// WithRateLimit paces spooler mutations. perSecond <= 0 is unlimited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(r *Reconciler) {
		if burst < 1 {
			burst = 1
		}
		limit := rate.Inf
		if perSecond > 0 {
			limit = rate.Limit(perSecond)
		}
		r.Limiter = rate.NewLimiter(limit, burst)
	}
}

// WithPhaseObserver calls fn on every phase transition.
func WithPhaseObserver(fn func(Phase)) Option {
	return func(r *Reconciler) {
		r.onPhase = fn
	}
}

// New returns a Reconciler for a host running osVersion.
func New(sub spooler.Subsystem, catalog []queue.Driver, resolver *ppd.Resolver, osVersion version.Version, options ...Option) *Reconciler {
	r := &Reconciler{
		Spooler:   sub,
		Catalog:   catalog,
		Resolver:  resolver,
		OSVersion: osVersion,
		Limiter:   rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.Resolver == nil {
		r.Resolver = ppd.NewDefaultResolver()
	}
	return r
}

// Reconcile deletes every installed queue and creates one queue per
// descriptor. With no usable descriptors the spooler is not touched. Queue
// failures are collected in the result; the returned error is only set when
// ctx ends the run early.
func (r *Reconciler) Reconcile(ctx context.Context, descriptors []queue.Descriptor) (*Result, error) {
	res := &Result{
		Purged:    []string{},
		Installed: []InstalledQueue{},
	}
	r.setPhase(res, PhaseIdle)

	valid := r.validate(res, descriptors)
	if len(valid) == 0 {
		slog.Info("no print queues assigned, leaving installed queues unchanged")
		res.Skipped = true
		r.setPhase(res, PhaseDone)
		return res, nil
	}

	r.setPhase(res, PhasePurging)
	if err := r.purge(ctx, res); err != nil {
		return res, err
	}

	r.setPhase(res, PhaseInstalling)
	if err := r.install(ctx, res, valid); err != nil {
		return res, err
	}

	r.setPhase(res, PhaseDone)
	slog.Info("reconciliation complete",
		"purged", len(res.Purged),
		"installed", len(res.Installed),
		"failures", len(res.Failures))
	return res, nil
}

// validate drops descriptors with unusable queue names and repeated names.
func (r *Reconciler) validate(res *Result, descriptors []queue.Descriptor) []queue.Descriptor {
	seen := make(map[string]bool, len(descriptors))
	valid := make([]queue.Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if err := queue.ValidateName(d.QueueName); err != nil {
			r.fail(res, d.QueueName, OpValidate, err)
			continue
		}
		if seen[d.QueueName] {
			slog.Warn("ignoring duplicate queue descriptor", "queue", d.QueueName, "server", d.Server)
			continue
		}
		seen[d.QueueName] = true
		valid = append(valid, d)
	}
	return valid
}

func (r *Reconciler) purge(ctx context.Context, res *Result) error {
	names, err := r.Spooler.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.fail(res, "", OpList, err)
		return nil
	}

	for _, name := range names {
		if err := r.Limiter.Wait(ctx); err != nil {
			return err
		}
		if err := r.Spooler.Delete(ctx, name); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.fail(res, name, OpDelete, err)
			continue
		}
		res.Purged = append(res.Purged, name)
		metrics.QueueDeleted()
		slog.Info("deleted print queue", "queue", name)
	}
	return nil
}

func (r *Reconciler) install(ctx context.Context, res *Result, descriptors []queue.Descriptor) error {
	for _, d := range descriptors {
		driver, matched := matcher.Match(d.ModelName, r.Catalog)
		in := queue.Install{
			Name:      d.QueueName,
			DeviceURI: d.DeviceURI(r.DomainSuffix),
			PPDPath:   r.Resolver.Resolve(driver, r.OSVersion),
		}
		iq := InstalledQueue{
			Name:      in.Name,
			Server:    d.Server,
			ModelName: d.ModelName,
			DeviceURI: in.DeviceURI,
			PPDPath:   in.PPDPath,
		}
		if matched {
			iq.Driver = driver.Name
		} else if d.ModelName != "" {
			slog.Warn("no driver matches model, using generic PPD", "queue", d.QueueName, "model", d.ModelName)
		}

		if err := r.Limiter.Wait(ctx); err != nil {
			return err
		}
		if err := r.Spooler.Create(ctx, in); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.fail(res, d.QueueName, OpCreate, err)
			continue
		}
		res.Installed = append(res.Installed, iq)
		metrics.QueueInstalled()
		slog.Info("installed print queue",
			"queue", in.Name,
			"uri", in.DeviceURI,
			"ppd", in.PPDPath,
			"driver", iq.Driver)
	}
	return nil
}

func (r *Reconciler) fail(res *Result, name, operation string, err error) {
	f := newFailure(name, operation, err)
	res.Failures = append(res.Failures, f)
	metrics.QueueFailed(operation)
	slog.Error("queue operation failed", "queue", name, "operation", operation, "error", err)
}

func (r *Reconciler) setPhase(res *Result, p Phase) {
	res.Phase = p
	slog.Debug("reconcile phase", "phase", p.String())
	if r.onPhase != nil {
		r.onPhase(p)
	}
}
