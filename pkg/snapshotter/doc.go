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

// Package snapshotter maintains the held host snapshot and produces sparse
// delta records when it changes.
//
// # Diff
//
// Diff is a pure function over the held snapshot and one cycle's readings:
//
//	next, rec := snapshotter.Diff(prev, readings, start, snapshotter.DiffOptions{})
//	if rec != nil {
//	    // persist rec, then hold next
//	}
//
// Processes, CPUs and service units are categories. A category appears in
// the record only when its fresh value differs from the held one under
// ordered element-wise equality, or was never sampled. Only processes with
// non-zero CPU usage are listed, ordered by pid. Units are listed only when
// the unit provider is supported on the host.
//
// No record is produced when no category changed, and the held timestamp
// stays put. Used memory and swap are copied into every record and into the
// held snapshot on every cycle. With DiffOptions.Uniform they are diffed
// like categories instead.
//
// # Engine
//
// Engine binds Diff to a MetricsProvider and a UnitProvider. Tick samples
// under the caller's context and returns (emit, next, record, err). A
// sample that outlives its context is reported as a TIMEOUT and blocks new
// samples until it returns.
//
// # Loop
//
// Loop owns the held snapshot for the life of the process:
//
//	loop := &snapshotter.Loop{
//	    Engine:   snapshotter.NewEngine(metrics, units, opts),
//	    Sink:     journal,
//	    Interval: time.Second,
//	    Warmup:   200 * time.Millisecond,
//	    Timeout:  10 * time.Second,
//	}
//	err := loop.Run(ctx)
//
// Run takes a priming sample, waits Warmup, then runs one Cycle per
// Interval. Provider errors skip the cycle; MaxFailures consecutive skips
// end the loop. Sink errors end the loop without advancing the snapshot.
//
// # Replay
//
// Replay folds a journal back into the final snapshot with the merge rule
// the loop applies in memory.
//
// # Metrics
//
//   - idlelog_cycle_duration_seconds
//   - idlelog_cycles_total{result}
//   - idlelog_category_changes_total{category}
//   - idlelog_last_emit_timestamp_seconds
//   - idlelog_consecutive_failures
package snapshotter
