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

// Package directory is the client for the print directory web service.
//
// The service exposes one SOAP 1.1 operation, GetPrintQueuesForWorkstation,
// which returns the print queues a workstation and user should have:
//
//	<PrintQueuesToMap>
//	  <PrintQueue>
//	    <Server>fs1</Server>
//	    <QueueShareName>lib-color</QueueShareName>
//	    <ModelName>Xerox Phaser 7760GX</ModelName>
//	  </PrintQueue>
//	</PrintQueuesToMap>
//
// Any failure (transport error, non-2xx status, or a body without a
// PrintQueuesToMap element) is returned as an error and the caller must leave
// local queues untouched. An empty PrintQueuesToMap is a valid answer.
//
// Usage:
//
//	c, err := directory.NewClient("http://printsvc/printservices/printservices.asmx",
//	    directory.WithNamespace("http://server/PrintServices/"),
//	    directory.WithSOAPAction("http://server/PrintServices/GetPrintQueuesForWorkstation"),
//	    directory.WithKey(key))
//	if err != nil {
//	    return err
//	}
//	queues, err := c.FetchQueues(ctx, "LIB-MAC-07", "jdoe")
package directory
