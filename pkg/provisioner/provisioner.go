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

package provisioner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/oalprint/queuemap/pkg/config"
	"github.com/oalprint/queuemap/pkg/directory"
	"github.com/oalprint/queuemap/pkg/header"
	"github.com/oalprint/queuemap/pkg/hostfacts"
	"github.com/oalprint/queuemap/pkg/metrics"
	"github.com/oalprint/queuemap/pkg/ppd"
	"github.com/oalprint/queuemap/pkg/queue"
	"github.com/oalprint/queuemap/pkg/reconciler"
	"github.com/oalprint/queuemap/pkg/spooler"
)

// FactsGatherer reads the host identity.
type FactsGatherer interface {
	Gather(ctx context.Context) (*hostfacts.Facts, error)
}

// QueueFetcher asks the directory service for the assigned queues.
type QueueFetcher interface {
	FetchQueues(ctx context.Context, computerName, userName string) ([]queue.Descriptor, error)
}

// Provisioner runs one login-time provisioning pass.
type Provisioner struct {
	Version   string
	Facts     FactsGatherer
	Directory QueueFetcher
	Spooler   spooler.Subsystem
	Catalog   []queue.Driver
	Resolver  *ppd.Resolver

	DomainSuffix string
	RateLimit    float64
	Burst        int

	// NetworkWait bounds the wait for a usable interface; zero checks once.
	NetworkWait time.Duration
	NetworkPoll time.Duration
	Interfaces  hostfacts.InterfaceLister
	SpoolerUnit string
	CheckUnit   func(ctx context.Context, unit string) error
	MetricsFile string
	DryRun      bool
}

// Report describes a finished run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	RunID       string             `json:"runID" yaml:"runID"`
	DryRun      bool               `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	Facts       *hostfacts.Facts   `json:"facts,omitempty" yaml:"facts,omitempty"`
	Descriptors []queue.Descriptor `json:"descriptors" yaml:"descriptors"`
	Result      *reconciler.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Duration    string             `json:"duration" yaml:"duration"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// New builds a Provisioner from cfg. With dryRun set the spooler is only
// listed, never changed.
func New(cfg *config.Config, version string, dryRun bool) (*Provisioner, error) {
	client, err := directory.NewClient(cfg.ServiceURL(),
		directory.WithSOAPAction(cfg.Service.SOAPAction),
		directory.WithNamespace(cfg.Service.Namespace),
		directory.WithKey(cfg.Service.Key),
		directory.WithUserDomain(cfg.Service.UserDomain),
		directory.WithTimeout(cfg.Service.Timeout),
		directory.WithInsecureSkipVerify(cfg.Service.Insecure),
		directory.WithUserAgent(directory.DefaultUserAgent+" ("+version+")"),
	)
	if err != nil {
		return nil, err
	}

	var sub spooler.Subsystem = spooler.NewCUPS()
	if dryRun {
		sub = spooler.NewDryRun(sub)
	}

	return &Provisioner{
		Version:      version,
		Facts:        hostfacts.NewCollector(),
		Directory:    client,
		Spooler:      sub,
		Catalog:      cfg.Catalog,
		Resolver:     cfg.Resolver(),
		DomainSuffix: cfg.Service.ServerDomain,
		RateLimit:    cfg.Spooler.RateLimit,
		Burst:        cfg.Spooler.Burst,
		NetworkWait:  cfg.Network.WaitTimeout,
		NetworkPoll:  cfg.Network.PollInterval,
		Interfaces:   hostfacts.SystemInterfaces,
		SpoolerUnit:  cfg.Spooler.SystemdUnit,
		CheckUnit:    spooler.CheckUnitActive,
		MetricsFile:  cfg.Metrics.Textfile,
		DryRun:       dryRun,
	}, nil
}

// Run gathers facts, fetches the assigned queues and reconciles the local
// spooler. Any error before reconciliation returns without a single queue
// being deleted or created. The report is returned even on error.
func (p *Provisioner) Run(ctx context.Context) (report *Report, err error) {
	runID := uuid.NewString()
	start := time.Now()

	report = &Report{
		Header:      *header.New(header.KindRunReport, p.Version, header.WithMetadata("runID", runID)),
		RunID:       runID,
		DryRun:      p.DryRun,
		Descriptors: []queue.Descriptor{},
	}

	slog.Info("starting run", "runID", runID, "version", p.Version, "dryRun", p.DryRun)

	defer func() {
		elapsed := time.Since(start)
		report.Duration = elapsed.String()
		if err != nil {
			report.Error = err.Error()
			slog.Error("run failed", "runID", runID, "error", err, "duration", report.Duration)
		} else {
			slog.Info("run finished", "runID", runID, "duration", report.Duration)
		}
		metrics.RunFinished(err == nil, elapsed)
		if werr := metrics.WriteTextfile(p.MetricsFile); werr != nil {
			slog.Warn("failed to write metrics", "error", werr)
		}
	}()

	facts, err := p.gather(ctx)
	if err != nil {
		return report, err
	}
	report.Facts = facts

	descriptors, err := p.Directory.FetchQueues(ctx, facts.ComputerName, facts.UserName)
	if err != nil {
		return report, err
	}
	report.Descriptors = descriptors
	metrics.DescriptorsReceived(len(descriptors))

	if len(descriptors) > 0 && p.SpoolerUnit != "" && p.CheckUnit != nil {
		if err = p.CheckUnit(ctx, p.SpoolerUnit); err != nil {
			return report, err
		}
	}

	r := reconciler.New(p.Spooler, p.Catalog, p.Resolver, facts.OSVersion,
		reconciler.WithDomainSuffix(p.DomainSuffix),
		reconciler.WithRateLimit(p.RateLimit, p.Burst))

	report.Result, err = r.Reconcile(ctx, descriptors)
	return report, err
}

// gather reads host facts while waiting for the network.
func (p *Provisioner) gather(ctx context.Context) (*hostfacts.Facts, error) {
	var facts *hostfacts.Facts

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f, err := p.Facts.Gather(gctx)
		if err != nil {
			return err
		}
		facts = f
		return nil
	})

	if p.Interfaces != nil {
		g.Go(func() error {
			return hostfacts.WaitForNetwork(gctx, p.Interfaces, p.NetworkWait, p.NetworkPoll)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return facts, nil
}
