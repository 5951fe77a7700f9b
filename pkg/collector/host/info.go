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
	"runtime"
	"sort"

	"github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/NVIDIA/idlelog/pkg/measurement"
)

// Info returns the host inventory: identity, memory totals, mounted disks
// and temperature sensors. Disks and sensors are best effort.
func (p *Provider) Info(ctx context.Context) (*measurement.HostInfo, error) {
	hi, err := p.src.hostInfo(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProviderFailure, "failed to read host info", err)
	}
	vm, err := p.src.virtualMemory(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProviderFailure, "failed to read memory", err)
	}
	sw, err := p.src.swapMemory(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProviderFailure, "failed to read swap", err)
	}

	count, err := p.src.cpuCounts(ctx, true)
	if err != nil || count == 0 {
		count = numCPU()
	}

	info := &measurement.HostInfo{
		Hostname:      hi.Hostname,
		OS:            hi.Platform,
		OSVersion:     hi.PlatformVersion,
		KernelVersion: hi.KernelVersion,
		CPUCount:      count,
		TotalMemory:   vm.Total,
		UsedMemory:    vm.Used,
		TotalSwap:     sw.Total,
		UsedSwap:      sw.Used,
		Disks:         p.disks(ctx),
		Components:    p.components(ctx),
	}
	return info, nil
}

func (p *Provider) disks(ctx context.Context) []measurement.DiskInfo {
	parts, err := p.src.partitions(ctx, false)
	if err != nil {
		slog.Debug("disk partitions unavailable", slog.String("error", err.Error()))
		return nil
	}

	out := make([]measurement.DiskInfo, 0, len(parts))
	for _, part := range parts {
		u, err := p.src.diskUsage(ctx, part.Mountpoint)
		if err != nil {
			slog.Debug("skipping mountpoint",
				slog.String("mountpoint", part.Mountpoint),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, measurement.DiskInfo{
			Device:     part.Device,
			Mountpoint: part.Mountpoint,
			FSType:     part.Fstype,
			Total:      u.Total,
			Used:       u.Used,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mountpoint < out[j].Mountpoint })
	return out
}

func (p *Provider) components(ctx context.Context) []measurement.ComponentInfo {
	temps, err := p.src.temperatures(ctx)
	if err != nil && len(temps) == 0 {
		slog.Debug("temperature sensors unavailable", slog.String("error", err.Error()))
		return nil
	}

	out := make([]measurement.ComponentInfo, 0, len(temps))
	for _, t := range temps {
		out = append(out, measurement.ComponentInfo{
			Label:       t.SensorKey,
			Temperature: t.Temperature,
			High:        t.High,
			Critical:    t.Critical,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func numCPU() int {
	return runtime.NumCPU()
}
