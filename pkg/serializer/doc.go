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

// Package serializer writes and reads idlelog data.
//
// # Journal
//
// Journal is the append-only record log. Each Append encodes one value as
// compact JSON and writes it followed by a newline in a single write call:
//
//	j, err := serializer.OpenJournal("idle-log.txt")
//	if err != nil {
//	    return err
//	}
//	defer j.Close()
//
//	if err := j.Append(ctx, record); err != nil {
//	    return err
//	}
//
// The file is opened with O_APPEND|O_CREATE and mode 0644. Nil pointers and
// empty slices tagged omitempty are left out of the line, which keeps the
// journal sparse. A failed write is truncated back to the previous size and
// retried once; a second failure returns IO_FAILURE and leaves no partial
// line behind. Encoding errors return SERIALIZATION_FAILURE.
//
// JournalReader reads a journal back one record per call:
//
//	r, err := serializer.OpenJournalReader("idle-log.txt")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for {
//	    var rec snapshotter.Record
//	    if err := r.Next(&rec); errors.Is(err, io.EOF) {
//	        break
//	    } else if err != nil {
//	        return err
//	    }
//	}
//
// # Console Output
//
// Writer renders values as JSON, YAML or a FIELD/VALUE table. Table keys
// follow json tags, slices are indexed as name[i], and integers are printed
// with digit grouping:
//
//	w := serializer.NewStdoutWriter(serializer.FormatTable)
//	_ = w.Serialize(ctx, hostInfo)
//
// # HTTP
//
// RespondJSON writes a JSON body with a status code, encoding before
// headers are sent.
//
// # Metrics
//
//   - idlelog_journal_bytes_written_total
//   - idlelog_journal_records_written_total
//   - idlelog_journal_write_retries_total
package serializer
