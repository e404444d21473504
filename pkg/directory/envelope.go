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
	"fmt"
	"strings"
)

const (
	soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	xsiNS          = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNS          = "http://www.w3.org/2001/XMLSchema"

	requestElement   = "GetPrintQueuesForWorkstation"
	containerElement = "PrintQueuesToMap"
	redacted         = "[REDACTED]"
)

// Request carries the values sent to GetPrintQueuesForWorkstation.
type Request struct {
	Key          string
	ComputerName string
	UserName     string
	UserDomain   string
	Server       string
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	XSI     string   `xml:"xmlns:xsi,attr"`
	XSD     string   `xml:"xmlns:xsd,attr"`
	SOAP    string   `xml:"xmlns:soap,attr"`
	Body    soapBody `xml:"soap:Body"`
}

type soapBody struct {
	Request soapRequest
}

type soapRequest struct {
	XMLName      xml.Name
	Key          string `xml:"Key"`
	ComputerName string `xml:"ComputerName"`
	UserName     string `xml:"UserName"`
	UserDomain   string `xml:"UserDomain"`
	Server       string `xml:"Server"`
}

// Envelope renders the SOAP 1.1 request document for namespace. Every value
// is escaped by the XML encoder.
func (r Request) Envelope(namespace string) ([]byte, error) {
	env := soapEnvelope{
		XSI:  xsiNS,
		XSD:  xsdNS,
		SOAP: soapEnvelopeNS,
		Body: soapBody{Request: soapRequest{
			XMLName:      xml.Name{Space: namespace, Local: requestElement},
			Key:          r.Key,
			ComputerName: r.ComputerName,
			UserName:     r.UserName,
			UserDomain:   r.UserDomain,
			Server:       r.Server,
		}},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("failed to encode soap envelope: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode soap envelope: %w", err)
	}
	return buf.Bytes(), nil
}

// Redacted returns a copy of r with the key masked, for logging.
func (r Request) Redacted() Request {
	if r.Key != "" {
		r.Key = redacted
	}
	return r
}

// soapAction quotes action the way SOAP 1.1 expects the header value.
func soapAction(action string) string {
	action = strings.Trim(action, `"`)
	return `"` + action + `"`
}
