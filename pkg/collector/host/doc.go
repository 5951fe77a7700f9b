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

// Package host samples host metrics through gopsutil.
//
// Provider implements both the metrics provider used every sampling cycle
// and the inventory provider used by the sysinfo command.
//
// # Sampling
//
// Refresh reads used memory, used swap, per-core CPU usage and frequency,
// and every visible process. Process handles are cached by pid between
// refreshes so per-process CPU usage and disk I/O are deltas since the
// previous refresh. A process seen for the first time reports zero CPU
// usage, and its read/written byte deltas equal its totals.
//
//	p := host.NewProvider()
//	if err := p.Refresh(ctx); err != nil {
//	    return err
//	}
//	time.Sleep(200 * time.Millisecond)
//	if err := p.Refresh(ctx); err != nil {
//	    return err
//	}
//	for _, c := range p.CPUs() {
//	    fmt.Println(c.CPUUsage, c.Frequency)
//	}
//
// NaN and negative CPU readings are reported as zero.
//
// # Permissions
//
// Without elevated privileges, names, memory and I/O counters of other
// users' processes may be unreadable. Those fields are left at zero rather
// than failing the refresh.
package host
