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

package queue

import (
	"fmt"
	"strings"
	"unicode"
)

// DeviceScheme is the URI scheme network queues are bound to.
const DeviceScheme = "smb"

// Descriptor describes one print queue assigned by the directory service.
// It has no identity beyond its fields.
type Descriptor struct {
	Server    string `json:"server" yaml:"server"`
	QueueName string `json:"queueName" yaml:"queueName"`
	ModelName string `json:"modelName,omitempty" yaml:"modelName,omitempty"`
}

// DeviceURI returns smb://{server}{domainSuffix}/{queueName}. domainSuffix
// is appended verbatim to the server name and may be empty; a missing
// leading dot is added.
func (d Descriptor) DeviceURI(domainSuffix string) string {
	host := d.Server
	if domainSuffix != "" {
		if !strings.HasPrefix(domainSuffix, ".") {
			domainSuffix = "." + domainSuffix
		}
		host += domainSuffix
	}
	return fmt.Sprintf("%s://%s/%s", DeviceScheme, host, d.QueueName)
}

// Driver is a catalog entry mapping identifying fragments of a printer
// model name to a PPD file. Every term must occur in the model name, ignoring
// case, for the entry to match.
type Driver struct {
	Name       string   `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	File       string   `json:"file" yaml:"file" mapstructure:"file" validate:"required"`
	MatchTerms []string `json:"matchTerms" yaml:"matchTerms" mapstructure:"matchTerms" validate:"required,min=1,dive,required"`
}

// Install is a single spooler create request.
type Install struct {
	Name      string `json:"name" yaml:"name"`
	DeviceURI string `json:"deviceURI" yaml:"deviceURI"`
	PPDPath   string `json:"ppdPath" yaml:"ppdPath"`
}

// ValidateName checks that name can be used as a local queue name.
// The spooler rejects names with whitespace, '/' or '#'.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("queue name is empty")
	}
	if len(name) > 127 {
		return fmt.Errorf("queue name %q exceeds 127 characters", name)
	}
	if i := strings.IndexFunc(name, func(r rune) bool {
		return r <= ' ' || r == 0x7f || r == '/' || r == '#' || unicode.IsSpace(r)
	}); i >= 0 {
		return fmt.Errorf("queue name %q contains invalid character %q", name, name[i])
	}
	return nil
}
