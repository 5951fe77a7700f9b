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

// Readings is one cycle's worth of provider data.
type Readings struct {
	UsedMemory uint64
	UsedSwap   uint64
	CPUs       []measurement.CPUSample
	Processes  map[uint32]measurement.ProcessSample

	// Units is nil when the host has no service manager.
	Units []measurement.UnitSample
}

// DiffOptions tunes Diff.
type DiffOptions struct {
	// Uniform applies the diff-and-suppress rule to memory and swap too.
	// When false, memory and swap are written on every record and never
	// trigger one.
	Uniform bool

	// ExcludeProcesses drops processes whose name matches any pattern.
	ExcludeProcesses []string
}

// Diff compares fresh readings against the held snapshot. It returns the
// snapshot to hold next and the record to persist, or a nil record when
// nothing changed. at is the cycle start time and becomes the record
// timestamp.
func Diff(prev Snapshot, r Readings, at time.Time, opts DiffOptions) (Snapshot, *Record) {
	rec := &Record{}
	changed := false

	procs := measurement.ActiveProcesses(r.Processes, opts.ExcludeProcesses)
	if measurement.CategoryChanged(prev.Processes, procs) {
		rec.Processes = procs
		changed = true
	}

	cpus := r.CPUs
	if cpus == nil {
		cpus = []measurement.CPUSample{}
	}
	if measurement.CategoryChanged(prev.CPUs, cpus) {
		rec.CPUs = cpus
		changed = true
	}

	if r.Units != nil && measurement.CategoryChanged(prev.Units, r.Units) {
		rec.Units = r.Units
		changed = true
	}

	mem, swap := r.UsedMemory, r.UsedSwap
	next := prev

	if !opts.Uniform {
		// memory and swap follow every cycle, emitted or not
		next.UsedMemory = mem
		next.UsedSwap = swap
		if !changed {
			return next, nil
		}
		rec.UsedMemory = &mem
		rec.UsedSwap = &swap
	} else {
		first := prev.Processes == nil && prev.CPUs == nil
		if first || mem != prev.UsedMemory {
			rec.UsedMemory = &mem
			changed = true
		}
		if first || swap != prev.UsedSwap {
			rec.UsedSwap = &swap
			changed = true
		}
		if !changed {
			return next, nil
		}
	}

	rec.Timestamp = FormatTimestamp(at)
	next.Merge(rec)
	return next, rec
}
