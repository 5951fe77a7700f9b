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

package defaults

import "time"

// Sampling defaults for the collection loop.
const (
	// SampleInterval is the default time between the start of two cycles.
	SampleInterval = 1 * time.Second

	// CPUWarmup is the minimum time between two CPU readings for usage
	// percentages to be meaningful. Intervals shorter than this are clamped.
	CPUWarmup = 200 * time.Millisecond

	// ProviderTimeout bounds a single cycle's provider reads. A cycle that
	// exceeds it is skipped.
	ProviderTimeout = 10 * time.Second

	// JournalFile is the relative path of the append-only log.
	JournalFile = "idle-log.txt"

	// JournalFileMode is the permission used when the journal is created.
	JournalFileMode = 0o644
)

// Server timeouts for the optional metrics listener.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)
