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

// Package header provides the envelope shared by every document queuemap
// prints or writes: run reports, fetched queue lists, host facts, match
// results and the driver catalog.
//
//	kind: RunReport
//	apiVersion: queuemap.oalprint.io/v1
//	metadata:
//	  timestamp: "2025-12-30T10:30:00Z"
//	  version: v1.0.0
//	  runID: 3f0c...
//
// Usage:
//
//	h := header.New(header.KindRunReport, version, header.WithMetadata("runID", id))
package header
