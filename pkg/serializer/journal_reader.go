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
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/NVIDIA/idlelog/pkg/errors"
)

// maxJournalLine bounds a single record. Process lists on busy hosts run
// to hundreds of kilobytes.
const maxJournalLine = 64 << 20

// JournalReader decodes a JSON Lines journal one record at a time.
type JournalReader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewJournalReader reads records from r.
func NewJournalReader(r io.Reader) *JournalReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxJournalLine)
	jr := &JournalReader{scanner: sc}
	if c, ok := r.(io.Closer); ok {
		jr.closer = c
	}
	return jr
}

// OpenJournalReader opens the journal at path for reading.
func OpenJournalReader(path string) (*JournalReader, error) {
	f, err := os.Open(path)
	if err != nil {
		code := errors.ErrCodeIOFailure
		if os.IsNotExist(err) {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.WrapWithContext(code, "failed to open journal", err,
			map[string]any{"path": path})
	}
	return NewJournalReader(f), nil
}

// Next decodes the next non-blank line into v. It returns io.EOF after
// the last record.
func (r *JournalReader) Next(v any) error {
	for r.scanner.Scan() {
		r.line++
		b := bytes.TrimSpace(r.scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		if err := json.Unmarshal(b, v); err != nil {
			return errors.WrapWithContext(errors.ErrCodeSerializationFailure, "invalid journal line", err,
				map[string]any{"line": r.line})
		}
		return nil
	}
	if err := r.scanner.Err(); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIOFailure, "failed to read journal", err,
			map[string]any{"line": r.line})
	}
	return io.EOF
}

// Line returns the number of the last line read.
func (r *JournalReader) Line() int {
	return r.line
}

// Close closes the underlying reader when it is closable.
func (r *JournalReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
