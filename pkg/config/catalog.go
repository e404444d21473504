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

package config

import "github.com/oalprint/queuemap/pkg/queue"

// DefaultCatalog returns the driver catalog used when the configuration
// file does not declare one. Order is significant: the first entry whose
// terms all match wins.
func DefaultCatalog() []queue.Driver {
	return []queue.Driver{
		{
			Name:       "Xerox 5550",
			File:       "Xerox Phaser 5550N.gz",
			MatchTerms: []string{"5550", "phaser", "xerox"},
		},
		{
			Name:       "Xerox 4112",
			File:       "Xerox FreeFlow 4112 EPS Print Server.gz",
			MatchTerms: []string{"4112", "xerox"},
		},
		{
			Name:       "Xerox 7760",
			File:       "Xerox Phaser 7760GX.gz",
			MatchTerms: []string{"7760", "phaser", "xerox"},
		},
		{
			Name:       "HP Color LaserJet 5550",
			File:       "HP Color LaserJet 5550.gz",
			MatchTerms: []string{"5550", "hp", "color"},
		},
		{
			Name:       "HP DesignJet 5500ps",
			File:       "HP Designjet 5500 PS3.gz",
			MatchTerms: []string{"5500", "hp", "designjet"},
		},
	}
}
