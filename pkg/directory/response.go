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

package directory

import (
	"bytes"
	"encoding/xml"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"

	"github.com/oalprint/queuemap/pkg/errors"
	"github.com/oalprint/queuemap/pkg/queue"
)

type queueEntry struct {
	Server         string `xml:"Server"`
	QueueShareName string `xml:"QueueShareName"`
	ModelName      string `xml:"ModelName"`
}

// ParseQueues extracts the descriptors from a GetPrintQueuesForWorkstation
// response. The first PrintQueuesToMap element is used wherever it appears,
// in any namespace. Entries without a server or queue share name are skipped.
func ParseQueues(body []byte) ([]queue.Descriptor, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	if err := seek(dec, containerElement); err != nil {
		return nil, err
	}

	descriptors := make([]queue.Descriptor, 0)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed("truncated queue list", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var e queueEntry
			if err := dec.DecodeElement(&e, &t); err != nil {
				return nil, malformed("invalid queue entry", err)
			}
			d := queue.Descriptor{
				Server:    strings.TrimSpace(e.Server),
				QueueName: strings.TrimSpace(e.QueueShareName),
				ModelName: strings.TrimSpace(e.ModelName),
			}
			if d.Server == "" || d.QueueName == "" {
				slog.Warn("skipping queue entry with missing fields",
					"element", t.Name.Local,
					"server", d.Server,
					"queue", d.QueueName)
				continue
			}
			descriptors = append(descriptors, d)
		case xml.EndElement:
			return descriptors, nil
		}
	}
}

// parseFault returns the SOAP faultstring of body, or "" when absent.
func parseFault(body []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(body))
	if err := seek(dec, "faultstring"); err != nil {
		return ""
	}
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			sb.Write(cd)
			continue
		}
		if _, ok := tok.(xml.EndElement); ok {
			break
		}
	}
	return strings.TrimSpace(sb.String())
}

// seek advances dec past the start tag of the first element named local.
func seek(dec *xml.Decoder, local string) error {
	seen := false
	for {
		tok, err := dec.Token()
		if stderrors.Is(err, io.EOF) {
			if !seen {
				return errors.New(errors.ErrCodeMalformedResponse, "response is not an XML document")
			}
			return errors.NewWithContext(errors.ErrCodeMalformedResponse,
				"response has no "+local+" element",
				map[string]any{"element": local})
		}
		if err != nil {
			return malformed("response is not valid XML", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			seen = true
			if se.Name.Local == local {
				return nil
			}
		}
	}
}

func malformed(msg string, cause error) error {
	return errors.Wrap(errors.ErrCodeMalformedResponse, msg, cause)
}
