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

package snapshotter

import (
	"time"

	"github.com/NVIDIA/idlelog/pkg/measurement"
)

// TimestampFormat is the layout of snapshot and record timestamps.
const TimestampFormat = time.RFC3339Nano

// FormatTimestamp renders t in UTC using TimestampFormat.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Snapshot is the last accepted state used as the diff baseline.
// A nil category has never been sampled; an empty one was sampled with
// no entries.
type Snapshot struct {
	Timestamp  string                      `json:"timestamp" yaml:"timestamp"`
	UsedMemory uint64                      `json:"used_memory" yaml:"used_memory"`
	UsedSwap   uint64                      `json:"used_swap" yaml:"used_swap"`
	Processes  []measurement.ProcessSample `json:"process_data,omitempty" yaml:"process_data,omitempty"`
	CPUs       []measurement.CPUSample     `json:"cpu_data,omitempty" yaml:"cpu_data,omitempty"`
	Units      []measurement.UnitSample    `json:"units,omitempty" yaml:"units,omitempty"`
}

// NewSnapshot returns the initial snapshot: no categories set, zero
// memory and swap, timestamp at start.
func NewSnapshot(start time.Time) Snapshot {
	return Snapshot{Timestamp: FormatTimestamp(start)}
}

// Record is the sparse delta written to the journal. Nil fields are
// omitted from the encoded line.
type Record struct {
	Timestamp  string                      `json:"timestamp" yaml:"timestamp"`
	UsedMemory *uint64                     `json:"used_memory,omitempty" yaml:"used_memory,omitempty"`
	UsedSwap   *uint64                     `json:"used_swap,omitempty" yaml:"used_swap,omitempty"`
	Processes  []measurement.ProcessSample `json:"process_data,omitempty" yaml:"process_data,omitempty"`
	CPUs       []measurement.CPUSample     `json:"cpu_data,omitempty" yaml:"cpu_data,omitempty"`
	Units      []measurement.UnitSample    `json:"units,omitempty" yaml:"units,omitempty"`
}

// Changed lists the categories present in the record.
func (r *Record) Changed() []measurement.Category {
	var out []measurement.Category
	if r.Processes != nil {
		out = append(out, measurement.CategoryProcesses)
	}
	if r.CPUs != nil {
		out = append(out, measurement.CategoryCPUs)
	}
	if r.Units != nil {
		out = append(out, measurement.CategoryUnits)
	}
	return out
}

// Merge applies a record to the snapshot. Fields absent from the record
// keep their previous value.
func (s *Snapshot) Merge(r *Record) {
	if r == nil {
		return
	}
	if r.Timestamp != "" {
		s.Timestamp = r.Timestamp
	}
	if r.UsedMemory != nil {
		s.UsedMemory = *r.UsedMemory
	}
	if r.UsedSwap != nil {
		s.UsedSwap = *r.UsedSwap
	}
	if r.Processes != nil {
		s.Processes = r.Processes
	}
	if r.CPUs != nil {
		s.CPUs = r.CPUs
	}
	if r.Units != nil {
		s.Units = r.Units
	}
}
