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
	"context"
	"sync"

	"github.com/NVIDIA/idlelog/pkg/measurement"
)

// fakeMetrics returns queued readings, one per Refresh. The last entry
// repeats once the queue is drained.
type fakeMetrics struct {
	mu        sync.Mutex
	queue     []Readings
	cur       Readings
	err       error
	block     chan struct{}
	refreshes int

	// onRefresh runs after each Refresh with the refresh count.
	onRefresh func(n int)
}

func (f *fakeMetrics) Refresh(ctx context.Context) error {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}

	f.mu.Lock()
	f.refreshes++
	n, hook, err := f.refreshes, f.onRefresh, f.err
	if err == nil && len(f.queue) > 0 {
		f.cur = f.queue[0]
		if len(f.queue) > 1 {
			f.queue = f.queue[1:]
		}
	}
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return err
}

func (f *fakeMetrics) UsedMemory() uint64 { return f.cur.UsedMemory }
func (f *fakeMetrics) UsedSwap() uint64   { return f.cur.UsedSwap }

func (f *fakeMetrics) CPUs() []measurement.CPUSample {
	return append([]measurement.CPUSample(nil), f.cur.CPUs...)
}

func (f *fakeMetrics) Processes() map[uint32]measurement.ProcessSample {
	out := make(map[uint32]measurement.ProcessSample, len(f.cur.Processes))
	for k, v := range f.cur.Processes {
		out[k] = v
	}
	return out
}

func (f *fakeMetrics) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeUnits struct {
	units []measurement.UnitSample
	err   error
}

func (f *fakeUnits) Supported() bool { return true }

func (f *fakeUnits) ListUnits(context.Context) ([]measurement.UnitSample, error) {
	return f.units, f.err
}

type memorySink struct {
	mu      sync.Mutex
	records []*Record
	err     error
}

func (s *memorySink) Append(_ context.Context, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, v.(*Record))
	return nil
}

func (s *memorySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func proc(pid uint32, name string, cpu float32) measurement.ProcessSample {
	return measurement.ProcessSample{PID: pid, Name: name, CPUUsage: cpu, MemoryUsage: 1 << 20}
}

func procs(ps ...measurement.ProcessSample) map[uint32]measurement.ProcessSample {
	out := make(map[uint32]measurement.ProcessSample, len(ps))
	for _, p := range ps {
		out[p.PID] = p
	}
	return out
}
