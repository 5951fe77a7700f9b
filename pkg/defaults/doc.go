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

// Package defaults provides centralized configuration constants for idlelog.
//
// # Categories
//
//   - Sampling: cycle interval, CPU warm-up, per-cycle provider timeout,
//     journal location
//   - Server: timeouts for the optional metrics listener
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ProviderTimeout)
//	defer cancel()
//
// # Guidelines
//
// The sampling interval must never be shorter than CPUWarmup. CPU usage is a
// delta between two readings and reads taken closer together than the
// warm-up return zeros or noise.
package defaults
