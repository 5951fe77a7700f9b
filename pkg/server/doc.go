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

// Package server provides the optional observability listener.
//
// The listener is off unless an address is configured. It serves:
//
//   - GET /         name, version, readiness and routes
//   - GET /health   liveness, always 200 while the process runs
//   - GET /ready    503 until the sampler finishes warm-up, then 200
//   - GET /metrics  Prometheus exposition
//
// # Usage
//
//	s := server.New(
//	    server.WithAddress("127.0.0.1:9464"),
//	    server.WithVersion(version),
//	)
//	g.Go(func() error { return s.Run(gctx) })
//	...
//	s.SetReady(true)
//
// Run returns when ctx is canceled, after a graceful shutdown bounded by
// Config.ShutdownTimeout.
//
// # Middleware
//
// Every route goes through, outermost first: Prometheus request metrics,
// request ID (X-Request-Id, UUID, generated when missing or malformed),
// panic recovery, token-bucket rate limiting, and debug request logging.
//
// # Errors
//
// Error replies are JSON ErrorResponse bodies. HTTPStatusFromCode maps
// pkg/errors codes to statuses and WriteErrorFromErr applies it.
package server
