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

// Package collector defines the providers the snapshot engine samples from.
//
// # Interfaces
//
// MetricsProvider exposes memory, swap, per-CPU and per-process readings
// captured by its last Refresh:
//
//	type MetricsProvider interface {
//	    Refresh(ctx context.Context) error
//	    UsedMemory() uint64
//	    UsedSwap() uint64
//	    CPUs() []measurement.CPUSample
//	    Processes() map[uint32]measurement.ProcessSample
//	}
//
// UnitProvider lists service-manager units. It is a capability: hosts without
// systemd get NoopUnitProvider, whose Supported method returns false, so the
// engine never needs platform conditionals.
//
// InfoProvider returns static host inventory for the sysinfo command.
//
// # Factory Pattern
//
// DefaultFactory builds production providers and picks the unit provider once
// at startup:
//
//	factory := collector.NewDefaultFactory(
//	    collector.WithUnitPatterns([]string{"*.service"}),
//	)
//	metrics := factory.CreateMetricsProvider()
//	units := factory.CreateUnitProvider(ctx)
//
// # Implementations
//
//   - host: gopsutil-backed MetricsProvider and InfoProvider
//   - systemd: D-Bus unit lister built on go-systemd
package collector
