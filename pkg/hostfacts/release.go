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

package hostfacts

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

var (
	filePathReleasePrimary  = "/etc/os-release"
	filePathReleaseFallback = "/usr/lib/os-release"
	releaseMaxSize          = 64 << 10
)

// readRelease parses the first existing os-release file in paths.
// Per freedesktop.org, /usr/lib/os-release is the fallback location.
//
//	NAME="Ubuntu"
//	VERSION_ID="22.04"
func readRelease(paths []string) (map[string]string, error) {
	var lastErr error
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			lastErr = err
			continue
		}
		if len(b) > releaseMaxSize {
			return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", p, releaseMaxSize)
		}
		if !utf8.Valid(b) {
			return nil, fmt.Errorf("content of file %q is not valid UTF-8", p)
		}
		return parseRelease(string(b)), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no os-release path configured")
	}
	return nil, fmt.Errorf("failed to read os release: %w", lastErr)
}

// parseRelease splits KEY=value lines, dropping comments, lines without a
// delimiter and empty values, and removing surrounding quotes.
func parseRelease(content string) map[string]string {
	result := make(map[string]string, 15)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			slog.Debug("skipping os-release line without value", "line", line)
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.Trim(strings.TrimSpace(kv[1]), `"'`)
		if value == "" {
			continue
		}
		result[key] = value
	}
	return result
}
