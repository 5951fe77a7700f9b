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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultEmitted   = "emitted"
	resultUnchanged = "unchanged"
	resultSkipped   = "skipped"
)

var (
	// Cycle metrics
	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "idlelog_cycle_duration_seconds",
			Help:    "Time taken to sample and diff one cycle",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	cyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idlelog_cycles_total",
			Help: "Total number of sampling cycles by result",
		},
		[]string{"result"}, // emitted, unchanged or skipped
	)

	categoryChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idlelog_category_changes_total",
			Help: "Total number of emitted records containing each category",
		},
		[]string{"category"}, // process_data, cpu_data, units
	)

	lastEmitTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "idlelog_last_emit_timestamp_seconds",
			Help: "Unix time of the last emitted record",
		},
	)

	consecutiveFailures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "idlelog_consecutive_failures",
			Help: "Number of consecutive skipped cycles",
		},
	)
)
