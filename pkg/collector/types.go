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

package collector

import (
	"context"

	"github.com/NVIDIA/idlelog/pkg/measurement"
)

// MetricsProvider exposes point-in-time host readings. Accessors return the
// values captured by the most recent Refresh. CPU usage is a delta between two
// refreshes, so the first Refresh only primes the provider.
type MetricsProvider interface {
	Refresh(ctx context.Context) error
	UsedMemory() uint64
	UsedSwap() uint64
	CPUs() []measurement.CPUSample
	Processes() map[uint32]measurement.ProcessSample
}

// UnitProvider lists service-manager units.
type UnitProvider interface {
	// Supported reports whether the provider has a service manager to query.
	// Unsupported providers never contribute a units category.
	Supported() bool

	// ListUnits returns the current units, never nil when err is nil.
	ListUnits(ctx context.Context) ([]measurement.UnitSample, error)
}

// InfoProvider returns static host inventory.
type InfoProvider interface {
	Info(ctx context.Context) (*measurement.HostInfo, error)
}
