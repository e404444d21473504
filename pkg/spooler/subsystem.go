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

	"github.com/oalprint/queuemap/pkg/queue"
)

// Subsystem is the local print spooler.
type Subsystem interface {
	// List returns the names of the installed queues.
	List(ctx context.Context) ([]string, error)
	// Delete removes the named queue.
	Delete(ctx context.Context, name string) error
	// Create installs and enables a queue.
	Create(ctx context.Context, in queue.Install) error
}
