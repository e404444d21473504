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

package header

import (
	"time"
)

// APIVersion is the schema version of every queuemap document.
const APIVersion = "queuemap.oalprint.io/v1"

// Kind represents the type of document queuemap prints or writes.
type Kind string

const (
	KindRunReport Kind = "RunReport"
	KindQueueList Kind = "QueueList"
	KindHostFacts Kind = "HostFacts"
	KindMatch     Kind = "MatchResult"
	KindCatalog   Kind = "DriverCatalog"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k *Kind) IsValid() bool {
	switch *k {
	case KindRunReport, KindQueueList, KindHostFacts, KindMatch, KindCatalog:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// New creates a Header of kind stamped with the current time and the
// queuemap version.
func New(kind Kind, version string, opts ...Option) *Header {
	h := &Header{}
	h.Init(kind, version)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header identifies a queuemap document.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata carries the timestamp, tool version and run id.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets kind and the current APIVersion, and resets Metadata to the
// timestamp and version.
func (h *Header) Init(kind Kind, version string) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = make(map[string]string)

	h.Metadata["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if version != "" {
		h.Metadata["version"] = version
	}
}
