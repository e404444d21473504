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

// Package reconciler makes the local print queues equal to the set assigned
// by the directory service.
//
// A run moves through four phases:
//
//	idle -> purging -> installing -> done
//
// When no usable descriptor is given the run goes straight from idle to done
// and the spooler is not touched. Otherwise every installed queue is deleted
// and one queue is created per descriptor, with a PPD chosen by matching the
// model name against the driver catalog.
//
// A failed list, delete or create is recorded in Result.Failures and the run
// continues. Spooler mutations can be paced with WithRateLimit.
package reconciler
