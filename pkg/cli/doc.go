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

// Package cli implements the command-line interface of idlelog.
//
// # Overview
//
// idlelog records what a host is doing while it sits idle. It samples memory,
// swap, per-core CPU, active processes and service units at a fixed cadence and
// appends a JSON record to a journal whenever something changed.
//
// # Commands
//
// run - Sample continuously (default command):
//
//	idlelog run [--file idle-log.txt] [--interval 1s] [--warmup 200ms]
//	            [--timeout 10s] [--max-failures N] [--uniform-diff]
//	            [--exclude-process PATTERN]... [--unit-pattern PATTERN]...
//	            [--no-units] [--metrics-addr HOST:PORT]
//
// Each record carries a timestamp, used memory and used swap, plus only the
// categories (process_data, cpu_data, units) that changed since the previous
// record. A cycle where nothing changed writes nothing. Memory and swap are
// held out of the change check unless --uniform-diff is set.
//
// replay - Reconstruct the last known state from a journal:
//
//	idlelog replay [--file idle-log.txt] [--format table|json|yaml] [--output FILE]
//
// sysinfo - Print host inventory:
//
//	idlelog sysinfo [--format table|json|yaml] [--output FILE]
//
// # Global Flags
//
//	--log-level   debug, info, warn or error (env LOG_LEVEL, default info)
//
// # Environment
//
//	IDLELOG_FILE          journal path
//	IDLELOG_INTERVAL      cycle interval
//	IDLELOG_WARMUP        minimum CPU sampling interval
//	IDLELOG_TIMEOUT       per-cycle provider timeout
//	IDLELOG_METRICS_ADDR  health and metrics listener address
//
// # Exit Status
//
// Interrupts and SIGTERM stop the loop and exit 0.
// Fatal errors (journal open or write failure, serialization failure, or too
// many consecutive skipped cycles) are printed to stderr and exit 1.
package cli
