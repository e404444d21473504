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

// Package version parses and compares operating system product versions
// such as "10.6.8", "14.2" or "22.04".
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// Version is an OS product version with up to three numeric components.
// Precision records how many components were present in the parsed string,
// so "10.6" compares equal to every 10.6.x release.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`

	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras keeps trailing build metadata, e.g. "-beta" or " (23C64)".
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// NewVersion creates a Version with all three components significant.
func NewVersion(major, minor, patch int) Version {
	return Version{
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		Precision: 3,
	}
}

// String returns the version respecting its precision. The zero value
// renders as "0".
func (v Version) String() string {
	switch v.Precision {
	case 0, 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// IsZero reports whether v was never set.
func (v Version) IsZero() bool {
	return v == Version{}
}

// ParseVersion parses "14", "10.6", "10.6.8", "v10.15.7" and strings with
// trailing metadata such as "13.0-beta" or "14.2.1 (23C71)".
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	var v Version
	mainPart := s
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= '0' && ch <= '9') || ch == '.' {
			continue
		}
		mainPart = s[:i]
		v.Extras = s[i:]
		break
	}

	parts := strings.Split(mainPart, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component in %q", ErrNonNumeric, s)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}

	v.Precision = len(parts)
	return v, nil
}

// MustParseVersion parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// Compare returns -1, 0 or 1 comparing v to other, looking only at the
// components significant in both.
func (v Version) Compare(other Version) int {
	precision := v.Precision
	if other.Precision < precision {
		precision = other.Precision
	}
	if precision == 0 {
		precision = 1
	}

	pairs := [][2]int{{v.Major, other.Major}, {v.Minor, other.Minor}, {v.Patch, other.Patch}}
	for i := 0; i < precision; i++ {
		switch {
		case pairs[i][0] < pairs[i][1]:
			return -1
		case pairs[i][0] > pairs[i][1]:
			return 1
		}
	}
	return 0
}

// EqualsOrNewer returns true if v is equal to or newer than other.
func (v Version) EqualsOrNewer(other Version) bool {
	return v.Compare(other) >= 0
}

// IsNewer returns true if v is strictly newer than other.
func (v Version) IsNewer(other Version) bool {
	return v.Compare(other) > 0
}
