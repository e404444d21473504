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

// Package provisioner wires one provisioning run together:
//
//  1. gather host facts while waiting for a network interface
//  2. fetch the assigned queues from the directory service
//  3. check that the print spooler is running
//  4. reconcile the local queues
//
// A failure in steps 1 to 3 ends the run before any queue is touched.
// Every run gets a random id that appears in its log records and report.
package provisioner
