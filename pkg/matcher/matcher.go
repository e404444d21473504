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

// Package matcher selects a driver catalog entry for a free-text printer
// model name.
//
// An entry matches when every one of its match terms occurs in the model
// name as a case-insensitive substring. Entries are tried in catalog
// declaration order and the first match wins, so more specific entries must
// be declared before more general ones:
//
//	drv, ok := matcher.Match("Xerox Phaser 5550N", catalog)
//	if !ok {
//	    // fall back to the generic driver
//	}
package matcher

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/oalprint/queuemap/pkg/queue"
)

// Match returns the first catalog entry whose terms all occur in modelName.
// It returns false when modelName is blank or nothing matches; that is not
// an error, callers fall back to a generic driver.
func Match(modelName string, catalog []queue.Driver) (*queue.Driver, bool) {
	folded, ok := fold(modelName)
	if !ok {
		return nil, false
	}
	for i := range catalog {
		if matches(folded, catalog[i].MatchTerms) {
			return &catalog[i], true
		}
	}
	return nil, false
}

// MatchAll returns every matching entry in catalog order. More than one
// result means the catalog order decided the outcome of Match.
func MatchAll(modelName string, catalog []queue.Driver) []queue.Driver {
	folded, ok := fold(modelName)
	if !ok {
		return nil
	}
	var out []queue.Driver
	for _, d := range catalog {
		if matches(folded, d.MatchTerms) {
			out = append(out, d)
		}
	}
	return out
}

// Terms reports whether all terms occur in modelName ignoring case.
// An empty term list never matches.
func Terms(modelName string, terms []string) bool {
	folded, ok := fold(modelName)
	if !ok {
		return false
	}
	return matches(folded, terms)
}

func matches(foldedModel string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	for _, term := range terms {
		t, ok := fold(term)
		if !ok || !strings.Contains(foldedModel, t) {
			return false
		}
	}
	return true
}

// fold applies Unicode case folding. A fresh Caser is used per call since
// Casers are not safe for concurrent use.
func fold(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return cases.Fold().String(s), true
}
