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

package serializer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	journalBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idlelog_journal_bytes_written_total",
			Help: "Total bytes appended to the journal",
		},
	)

	journalRecordsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idlelog_journal_records_written_total",
			Help: "Total records appended to the journal",
		},
	)

	journalWriteRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idlelog_journal_write_retries_total",
			Help: "Total journal writes retried after a failure",
		},
	)
)
