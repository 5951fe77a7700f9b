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

package host

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/NVIDIA/idlelog/pkg/measurement"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	gohost "github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"
)

// processHandle is the subset of *process.Process sampled each refresh.
// Handles are kept across refreshes so CPU percent is a delta.
type processHandle interface {
	NameWithContext(ctx context.Context) (string, error)
	PercentWithContext(ctx context.Context, interval time.Duration) (float64, error)
	MemoryInfoWithContext(ctx context.Context) (*process.MemoryInfoStat, error)
	IOCountersWithContext(ctx context.Context) (*process.IOCountersStat, error)
}

// source holds the gopsutil entry points. Tests replace them.
type source struct {
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swapMemory    func(ctx context.Context) (*mem.SwapMemoryStat, error)
	cpuPercent    func(ctx context.Context, interval time.Duration, perCPU bool) ([]float64, error)
	cpuInfo       func(ctx context.Context) ([]cpu.InfoStat, error)
	pids          func(ctx context.Context) ([]int32, error)
	newProcess    func(ctx context.Context, pid int32) (processHandle, error)

	// inventory
	hostInfo     func(ctx context.Context) (*gohost.InfoStat, error)
	cpuCounts    func(ctx context.Context, logical bool) (int, error)
	partitions   func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	diskUsage    func(ctx context.Context, path string) (*disk.UsageStat, error)
	temperatures func(ctx context.Context) ([]sensors.TemperatureStat, error)
}

func defaultSource() source {
	return source{
		virtualMemory: mem.VirtualMemoryWithContext,
		swapMemory:    mem.SwapMemoryWithContext,
		cpuPercent:    cpu.PercentWithContext,
		cpuInfo:       cpu.InfoWithContext,
		pids:          process.PidsWithContext,
		newProcess: func(ctx context.Context, pid int32) (processHandle, error) {
			return process.NewProcessWithContext(ctx, pid)
		},
		hostInfo:     gohost.InfoWithContext,
		cpuCounts:    cpu.CountsWithContext,
		partitions:   disk.PartitionsWithContext,
		diskUsage:    disk.UsageWithContext,
		temperatures: sensors.TemperaturesWithContext,
	}
}

type trackedProcess struct {
	handle    processHandle
	readBytes uint64
	wrBytes   uint64
}

// Provider samples host metrics through gopsutil.
type Provider struct {
	src source

	mu         sync.RWMutex
	tracked    map[int32]*trackedProcess
	usedMemory uint64
	usedSwap   uint64
	cpus       []measurement.CPUSample
	processes  map[uint32]measurement.ProcessSample
}

// NewProvider creates a host provider. Call Refresh before reading.
func NewProvider() *Provider {
	return newProvider(defaultSource())
}

func newProvider(src source) *Provider {
	return &Provider{
		src:       src,
		tracked:   make(map[int32]*trackedProcess),
		cpus:      []measurement.CPUSample{},
		processes: map[uint32]measurement.ProcessSample{},
	}
}

// Refresh captures memory, swap, CPU and process readings.
func (p *Provider) Refresh(ctx context.Context) error {
	vm, err := p.src.virtualMemory(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeProviderFailure, "failed to read memory", err)
	}
	sw, err := p.src.swapMemory(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeProviderFailure, "failed to read swap", err)
	}
	cpus, err := p.sampleCPUs(ctx)
	if err != nil {
		return err
	}
	procs, err := p.sampleProcesses(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.usedMemory = vm.Used
	p.usedSwap = sw.Used
	p.cpus = cpus
	p.processes = procs
	return nil
}

func (p *Provider) sampleCPUs(ctx context.Context) ([]measurement.CPUSample, error) {
	percents, err := p.src.cpuPercent(ctx, 0, true)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProviderFailure, "failed to read cpu usage", err)
	}

	// Frequency is best effort; some virtualized hosts report nothing.
	infos, err := p.src.cpuInfo(ctx)
	if err != nil {
		slog.Debug("cpu frequency unavailable", slog.String("error", err.Error()))
	}

	cpus := make([]measurement.CPUSample, len(percents))
	for i, pct := range percents {
		cpus[i].CPUUsage = sanitize(pct)
		switch {
		case i < len(infos):
			cpus[i].Frequency = uint64(math.Round(infos[i].Mhz))
		case len(infos) > 0:
			cpus[i].Frequency = uint64(math.Round(infos[0].Mhz))
		}
	}
	return cpus, nil
}

func (p *Provider) sampleProcesses(ctx context.Context) (map[uint32]measurement.ProcessSample, error) {
	pids, err := p.src.pids(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProviderFailure, "failed to list processes", err)
	}

	seen := make(map[int32]struct{}, len(pids))
	out := make(map[uint32]measurement.ProcessSample, len(pids))

	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "process sampling interrupted", err)
		}

		tp, ok := p.tracked[pid]
		if !ok {
			h, err := p.src.newProcess(ctx, pid)
			if err != nil {
				// exited between listing and open
				continue
			}
			tp = &trackedProcess{handle: h}
			p.tracked[pid] = tp
		}
		seen[pid] = struct{}{}

		pct, err := tp.handle.PercentWithContext(ctx, 0)
		if err != nil {
			delete(p.tracked, pid)
			continue
		}

		sample := measurement.ProcessSample{
			PID:      uint32(pid),
			CPUUsage: sanitize(pct),
		}
		if name, err := tp.handle.NameWithContext(ctx); err == nil {
			sample.Name = name
		}
		if mi, err := tp.handle.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			sample.MemoryUsage = mi.RSS
		}
		if io, err := tp.handle.IOCountersWithContext(ctx); err == nil && io != nil {
			sample.DiskUsage = measurement.DiskUsage{
				TotalReadBytes:    io.ReadBytes,
				ReadBytes:         delta(io.ReadBytes, tp.readBytes),
				TotalWrittenBytes: io.WriteBytes,
				WrittenBytes:      delta(io.WriteBytes, tp.wrBytes),
			}
			tp.readBytes = io.ReadBytes
			tp.wrBytes = io.WriteBytes
		}

		out[sample.PID] = sample
	}

	for pid := range p.tracked {
		if _, ok := seen[pid]; !ok {
			delete(p.tracked, pid)
		}
	}

	return out, nil
}

// UsedMemory returns used physical memory in bytes.
func (p *Provider) UsedMemory() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.usedMemory
}

// UsedSwap returns used swap in bytes.
func (p *Provider) UsedSwap() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.usedSwap
}

// CPUs returns per-core readings in core order.
func (p *Provider) CPUs() []measurement.CPUSample {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]measurement.CPUSample, len(p.cpus))
	copy(out, p.cpus)
	return out
}

// Processes returns the per-process readings keyed by pid.
func (p *Provider) Processes() map[uint32]measurement.ProcessSample {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[uint32]measurement.ProcessSample, len(p.processes))
	for k, v := range p.processes {
		out[k] = v
	}
	return out
}

// sanitize maps NaN and negative readings to zero so they compare equal
// across cycles.
func sanitize(v float64) float32 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return float32(v)
}

func delta(cur, prev uint64) uint64 {
	if cur < prev {
		return cur
	}
	return cur - prev
}
