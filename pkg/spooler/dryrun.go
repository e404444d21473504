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

package spooler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/oalprint/queuemap/pkg/queue"
)

// Op is a recorded spooler mutation.
type Op struct {
	Action  string         `json:"action" yaml:"action"`
	Name    string         `json:"name" yaml:"name"`
	Install *queue.Install `json:"install,omitempty" yaml:"install,omitempty"`
}

// DryRun lists through Base and records mutations instead of executing them.
type DryRun struct {
	Base Subsystem

	mu  sync.Mutex
	ops []Op
}

// NewDryRun wraps base.
func NewDryRun(base Subsystem) *DryRun {
	return &DryRun{Base: base}
}

func (d *DryRun) List(ctx context.Context) ([]string, error) {
	return d.Base.List(ctx)
}

func (d *DryRun) Delete(_ context.Context, name string) error {
	slog.Info("dry run: would delete queue", "queue", name)
	d.record(Op{Action: "delete", Name: name})
	return nil
}

func (d *DryRun) Create(_ context.Context, in queue.Install) error {
	slog.Info("dry run: would create queue", "queue", in.Name, "uri", in.DeviceURI, "ppd", in.PPDPath)
	d.record(Op{Action: "create", Name: in.Name, Install: &in})
	return nil
}

// Ops returns the recorded mutations in order.
func (d *DryRun) Ops() []Op {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Op(nil), d.ops...)
}

func (d *DryRun) record(op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, op)
}
