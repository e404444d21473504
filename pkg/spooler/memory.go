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
	"fmt"
	"sort"
	"sync"

	"github.com/oalprint/queuemap/pkg/queue"
)

// Memory is an in-memory Subsystem. Failures can be injected per queue.
type Memory struct {
	mu     sync.Mutex
	queues map[string]queue.Install

	// ListErr, when set, is returned by List.
	ListErr error
	// FailDelete and FailCreate name queues whose operation fails.
	FailDelete map[string]error
	FailCreate map[string]error

	Deletes int
	Creates int
}

// NewMemory returns a Memory holding the named queues.
func NewMemory(names ...string) *Memory {
	m := &Memory{
		queues:     make(map[string]queue.Install, len(names)),
		FailDelete: map[string]error{},
		FailCreate: map[string]error{},
	}
	for _, n := range names {
		m.queues[n] = queue.Install{Name: n}
	}
	return m
}

func (m *Memory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	names := make([]string, 0, len(m.queues))
	for n := range m.queues {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if err := m.FailDelete[name]; err != nil {
		return err
	}
	if _, ok := m.queues[name]; !ok {
		return fmt.Errorf("queue %q does not exist", name)
	}
	delete(m.queues, name)
	return nil
}

func (m *Memory) Create(ctx context.Context, in queue.Install) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Creates++
	if err := m.FailCreate[in.Name]; err != nil {
		return err
	}
	m.queues[in.Name] = in
	return nil
}

// Get returns the installed queue with name.
func (m *Memory) Get(name string) (queue.Install, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.queues[name]
	return in, ok
}

// Names returns the installed queue names, sorted.
func (m *Memory) Names() []string {
	names, _ := m.List(context.Background())
	return names
}
