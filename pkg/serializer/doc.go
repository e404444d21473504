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

// Package serializer writes queuemap documents (run reports, queue lists,
// host facts, match results and the driver catalog) to stdout or a file.
//
// Three formats are supported:
//   - JSON: indented, for scripts
//   - YAML: the default, for people
//   - Table: FIELD/VALUE rows with keys flattened along json field names
//
// Usage:
//
//	w, err := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	if err := w.Serialize(ctx, report); err != nil {
//		return err
//	}
package serializer
