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

package measurement

import "fmt"

// Category names one of the optionally-diffed metric groups. The value is the
// JSON key the category is written under.
type Category string

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

const (
	CategoryProcesses Category = "process_data"
	CategoryCPUs      Category = "cpu_data"
	CategoryUnits     Category = "units"
)

// Categories is the list of all diffed categories in record order.
var Categories = []Category{
	CategoryProcesses,
	CategoryCPUs,
	CategoryUnits,
}

// ParseCategory parses a string into a Category.
// Returns the Category and true if parsing succeeds, or empty Category and false if the string is invalid.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// DiskUsage is a process's disk I/O. The total fields are cumulative since the
// process started; ReadBytes and WrittenBytes cover the interval since the
// previous refresh.
type DiskUsage struct {
	TotalWrittenBytes uint64 `json:"total_written_bytes" yaml:"total_written_bytes"`
	WrittenBytes      uint64 `json:"written_bytes" yaml:"written_bytes"`
	TotalReadBytes    uint64 `json:"total_read_bytes" yaml:"total_read_bytes"`
	ReadBytes         uint64 `json:"read_bytes" yaml:"read_bytes"`
}

// ProcessSample is one process's reading for a cycle.
type ProcessSample struct {
	PID         uint32    `json:"pid" yaml:"pid"`
	Name        string    `json:"name" yaml:"name"`
	CPUUsage    float32   `json:"cpu_usage" yaml:"cpu_usage"`
	MemoryUsage uint64    `json:"memory_usage" yaml:"memory_usage"`
	DiskUsage   DiskUsage `json:"disk_usage" yaml:"disk_usage"`
}

// IsActive reports whether the process used any CPU during the cycle.
func (p ProcessSample) IsActive() bool {
	return p.CPUUsage > 0
}

// CPUSample is one logical CPU's reading for a cycle. Frequency is in MHz.
type CPUSample struct {
	CPUUsage  float32 `json:"cpu_usage" yaml:"cpu_usage"`
	Frequency uint64  `json:"frequency" yaml:"frequency"`
}

// UnitSample is a service-manager unit as listed by the unit provider.
// Samples are compared as a whole.
type UnitSample struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	LoadState   string `json:"load_state" yaml:"load_state"`
	ActiveState string `json:"active_state" yaml:"active_state"`
	SubState    string `json:"sub_state" yaml:"sub_state"`
}

// String returns a compact "name load/active/sub" form.
func (u UnitSample) String() string {
	return fmt.Sprintf("%s %s/%s/%s", u.Name, u.LoadState, u.ActiveState, u.SubState)
}

// DiskInfo describes a mounted filesystem.
type DiskInfo struct {
	Device     string `json:"device" yaml:"device"`
	Mountpoint string `json:"mountpoint" yaml:"mountpoint"`
	FSType     string `json:"fstype" yaml:"fstype"`
	Total      uint64 `json:"total" yaml:"total"`
	Used       uint64 `json:"used" yaml:"used"`
}

// ComponentInfo is a hardware temperature sensor reading in degrees Celsius.
type ComponentInfo struct {
	Label       string  `json:"label" yaml:"label"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	High        float64 `json:"high,omitempty" yaml:"high,omitempty"`
	Critical    float64 `json:"critical,omitempty" yaml:"critical,omitempty"`
}

// HostInfo is the static host inventory printed at startup.
type HostInfo struct {
	Hostname      string          `json:"hostname" yaml:"hostname"`
	OS            string          `json:"os" yaml:"os"`
	OSVersion     string          `json:"os_version" yaml:"os_version"`
	KernelVersion string          `json:"kernel_version" yaml:"kernel_version"`
	CPUCount      int             `json:"cpu_count" yaml:"cpu_count"`
	TotalMemory   uint64          `json:"total_memory" yaml:"total_memory"`
	UsedMemory    uint64          `json:"used_memory" yaml:"used_memory"`
	TotalSwap     uint64          `json:"total_swap" yaml:"total_swap"`
	UsedSwap      uint64          `json:"used_swap" yaml:"used_swap"`
	Disks         []DiskInfo      `json:"disks,omitempty" yaml:"disks,omitempty"`
	Components    []ComponentInfo `json:"components,omitempty" yaml:"components,omitempty"`
}
