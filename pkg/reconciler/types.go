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
	"fmt"

	"github.com/oalprint/queuemap/pkg/errors"
)

// Phase is a step of a reconciliation run. Phases only move forward.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePurging
	PhaseInstalling
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePurging:
		return "purging"
	case PhaseInstalling:
		return "installing"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Operation names recorded on failures.
const (
	OpValidate = "validate"
	OpList     = "list"
	OpDelete   = "delete"
	OpCreate   = "create"
)

// InstalledQueue is a queue created by this run.
type InstalledQueue struct {
	Name      string `json:"name" yaml:"name"`
	Server    string `json:"server" yaml:"server"`
	ModelName string `json:"modelName,omitempty" yaml:"modelName,omitempty"`
	Driver    string `json:"driver,omitempty" yaml:"driver,omitempty"`
	DeviceURI string `json:"deviceURI" yaml:"deviceURI"`
	PPDPath   string `json:"ppdPath" yaml:"ppdPath"`
}

// Failure is a non-fatal per-queue error. Queue is empty for list failures.
type Failure struct {
	Queue     string `json:"queue,omitempty" yaml:"queue,omitempty"`
	Operation string `json:"operation" yaml:"operation"`
	Err       error  `json:"-" yaml:"-"`
	Message   string `json:"error" yaml:"error"`
}

func newFailure(queue, operation string, cause error) Failure {
	err := errors.NewQueueError(queue, operation, cause)
	return Failure{
		Queue:     queue,
		Operation: operation,
		Err:       err,
		Message:   err.Error(),
	}
}

func (f Failure) Error() string {
	return f.Message
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result summarizes a reconciliation run.
type Result struct {
	Phase     Phase            `json:"-" yaml:"-"`
	Skipped   bool             `json:"skipped" yaml:"skipped"`
	Purged    []string         `json:"purged" yaml:"purged"`
	Installed []InstalledQueue `json:"installed" yaml:"installed"`
	Failures  []Failure        `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Failed reports whether any queue operation failed.
func (r *Result) Failed() bool {
	return r != nil && len(r.Failures) > 0
}
