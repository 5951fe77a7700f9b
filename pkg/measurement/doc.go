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

// Package measurement defines the per-cycle readings idlelog records and the
// comparison rules the snapshot engine applies to them.
//
// # Core Types
//
//   - ProcessSample: pid, name, CPU usage, resident memory and DiskUsage
//   - CPUSample: usage percentage and frequency of one logical CPU
//   - UnitSample: a service-manager unit (name, load/active/sub state)
//   - HostInfo: static inventory (OS, kernel, disks, temperature sensors)
//   - Category: the JSON key of an optionally-diffed group of samples
//
// # Comparing Categories
//
// A category is compared as a whole sequence:
//
//	if measurement.CategoryChanged(prev.CPUs, cpus) {
//	    rec.CPUs = cpus
//	}
//
// A nil previous slice means "never set" and always counts as a change. An
// empty non-nil slice is a real value: two consecutive empty lists are equal.
//
// # Filtering Processes
//
// Only processes that used CPU during the cycle are kept, ordered by pid so
// that equality does not depend on map iteration order:
//
//	procs := measurement.ActiveProcesses(provider.Processes(), []string{"kworker*"})
//
// Patterns accept '*' wildcards anywhere (see MatchesPattern).
package measurement
