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

// Package hostfacts reads the identity of the workstation for one run:
// the computer name, the user logged in at the console, and the OS version.
//
// On macOS the computer name comes from "scutil --get ComputerName" and the
// version from the kern.osproductversion sysctl, falling back to
// "sw_vers -productVersion". On Linux the hostname and the VERSION_ID field
// of os-release are used.
//
// The console user is the owner of /dev/console. A console owned by root or
// by the setup assistant means nobody is logged in and Gather fails with
// FACT_UNAVAILABLE.
//
// Usage:
//
//	facts, err := hostfacts.NewCollector().Gather(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(facts.ComputerName, facts.UserName)
package hostfacts
