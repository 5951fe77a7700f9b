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
	stderrors "errors"
	"io"

	"github.com/NVIDIA/idlelog/pkg/errors"
)

// RecordReader yields decoded journal lines and returns io.EOF when done.
type RecordReader interface {
	Next(v any) error
}

// Replay folds every record from r into a snapshot using the same merge
// rule as the live loop. It returns the final snapshot and the number of
// records read. A category changed to empty is indistinguishable from an
// unchanged one in the journal and keeps its previous value.
func Replay(r RecordReader) (Snapshot, int, error) {
	var (
		snap Snapshot
		n    int
	)
	for {
		var rec Record
		err := r.Next(&rec)
		if stderrors.Is(err, io.EOF) {
			return snap, n, nil
		}
		if err != nil {
			if errors.CodeOf(err) != "" {
				return snap, n, err
			}
			return snap, n, errors.WrapWithContext(errors.ErrCodeSerializationFailure,
				"failed to decode journal record", err, map[string]any{"record": n + 1})
		}
		snap.Merge(&rec)
		n++
	}
}
