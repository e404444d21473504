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

package command

import (
	"context"
	"fmt"
	"sync"
)

// Response is the canned result of a FakeRunner command.
type Response struct {
	Stdout string
	Stderr string
	Exit   int
}

// FakeRunner replays canned responses keyed by the rendered command line
// and records every call. Commands without a response succeed with empty
// output. It is intended for tests.
type FakeRunner struct {
	mu        sync.Mutex
	Responses map[string]Response
	Calls     []string
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Responses: map[string]Response{}}
}

// On registers the response for a command line.
func (f *FakeRunner) On(resp Response, name string, args ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[Line(name, args...)] = resp
	return f
}

// Run implements Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	line := Line(name, args...)

	f.mu.Lock()
	f.Calls = append(f.Calls, line)
	resp, ok := f.Responses[line]
	f.mu.Unlock()

	if !ok || resp.Exit == 0 {
		return []byte(resp.Stdout), nil
	}
	return []byte(resp.Stdout), &Error{
		Command:  line,
		ExitCode: resp.Exit,
		Stderr:   resp.Stderr,
		Err:      fmt.Errorf("exit status %d", resp.Exit),
	}
}

// CallLines returns a copy of the recorded command lines.
func (f *FakeRunner) CallLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}
