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

// Package ppd resolves the PPD file handed to the spooler for a queue.
package ppd

import (
	"path"

	"github.com/oalprint/queuemap/pkg/queue"
	"github.com/oalprint/queuemap/pkg/version"
)

// Default filesystem layouts. Up to 10.6 vendor PPDs live directly under
// /Library/Printers/PPDs; later releases moved them into Contents/Resources.
const (
	DefaultGenericPath  = "/System/Library/Frameworks/ApplicationServices.framework/Versions/A/Frameworks/PrintCore.framework/Versions/A/Resources/Generic.ppd"
	DefaultModernPrefix = "/Library/Printers/PPDs/Contents/Resources/"
	DefaultLegacyPrefix = "/Library/Printers/PPDs/"
	DefaultLegacyMax    = "10.6"
)

// Resolver maps a matched catalog entry, or the lack of one, to a PPD path.
type Resolver struct {
	// GenericPath is used when no catalog entry matched.
	GenericPath string
	// LegacyGenericPath replaces GenericPath on LegacyMax and older. Empty
	// means GenericPath is used on every release.
	LegacyGenericPath string
	// ModernPrefix is prepended to driver files on releases newer than LegacyMax.
	ModernPrefix string
	// LegacyPrefix is prepended to driver files on LegacyMax and older.
	LegacyPrefix string
	// LegacyMax is the newest release using the legacy layout.
	LegacyMax version.Version
}

// NewDefaultResolver returns a Resolver for the stock macOS layouts.
func NewDefaultResolver() *Resolver {
	return &Resolver{
		GenericPath:       DefaultGenericPath,
		LegacyGenericPath: DefaultGenericPath,
		ModernPrefix:      DefaultModernPrefix,
		LegacyPrefix:      DefaultLegacyPrefix,
		LegacyMax:         version.MustParseVersion(DefaultLegacyMax),
	}
}

// Resolve returns the PPD path for driver on a host running osVersion.
// A nil driver selects the generic PPD of the layout. Absolute driver files
// are used as given. An unknown (zero) OS version selects the modern layout.
func (r *Resolver) Resolve(driver *queue.Driver, osVersion version.Version) string {
	if driver == nil || driver.File == "" {
		if r.LegacyGenericPath != "" && r.IsLegacy(osVersion) {
			return r.LegacyGenericPath
		}
		return r.GenericPath
	}
	if path.IsAbs(driver.File) {
		return driver.File
	}
	if r.IsLegacy(osVersion) {
		return path.Join(r.LegacyPrefix, driver.File)
	}
	return path.Join(r.ModernPrefix, driver.File)
}

// IsLegacy reports whether osVersion uses the legacy PPD layout.
func (r *Resolver) IsLegacy(osVersion version.Version) bool {
	if osVersion.IsZero() {
		return false
	}
	return !osVersion.IsNewer(r.LegacyMax)
}
